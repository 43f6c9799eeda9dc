package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hazekiller/gyan/core"
	"github.com/hazekiller/gyan/core/access"
	"github.com/hazekiller/gyan/core/exam"
)

type reportApi struct {
	conf     *core.Config
	svc      *exam.Service
	mailSvc  core.EmailService
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps Deps) {
	api := reportApi{
		conf:     deps.Conf,
		svc:      deps.ReportSvc,
		mailSvc:  deps.MailSvc,
		validate: deps.Validate,
	}

	eg := g.Group("/exams/:id", jwt, viewMiddleware(deps.Policy, access.ViewExamReport))
	eg.GET("/report", api.report)
	eg.GET("/report.csv", api.reportCSV)
	eg.GET("/report.html", api.reportHTML)
	eg.POST("/report/email", api.emailReport)
}

type EmailReportRequest struct {
	To     []string `json:"to" validate:"required,min=1,dive,email"`
	Search string   `json:"search"`
}

func (er *EmailReportRequest) Validate(validate *validator.Validate) error {
	for i, addr := range er.To {
		er.To[i] = core.CleanString(addr, true /* lower */)
	}
	return validate.Struct(er)
}

func (api *reportApi) build(ctx echo.Context, search string) (exam.Broadsheet, error) {
	examID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || examID <= 0 {
		return exam.Broadsheet{}, errHttpNotFound
	}
	bs, err := api.svc.Report(ctx.Request().Context(), examID, search)
	if err != nil {
		return exam.Broadsheet{}, errors.Wrap(err, "building broadsheet")
	}
	return bs, nil
}

func (api *reportApi) report(ctx echo.Context) error {
	bs, err := api.build(ctx, ctx.QueryParam("search"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, bs)
}

func (api *reportApi) reportCSV(ctx echo.Context) error {
	bs, err := api.build(ctx, ctx.QueryParam("search"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = exam.WriteCSV(&buf, bs); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", csvFilename(bs.Exam)))
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (api *reportApi) reportHTML(ctx echo.Context) error {
	bs, err := api.build(ctx, ctx.QueryParam("search"))
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, broadsheetTemplate, bs)
}

func (api *reportApi) emailReport(ctx echo.Context) error {
	var data EmailReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EmailReportRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	bs, err := api.build(ctx, data.Search)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = exam.WriteCSV(&buf, bs); err != nil {
		return errors.Wrap(err, "writing csv")
	}

	msg := &core.EmailMessage{
		Subject:      bs.Exam.Name + " broadsheet",
		TemplateName: "exam_report",
		TemplateData: map[string]interface{}{
			"AppName": api.conf.AppName,
			"Exam":    bs.Exam,
			"Summary": bs.Summary,
		},
	}
	for _, addr := range data.To {
		msg.To = append(msg.To, mail.Address{Address: addr})
	}
	if err = msg.Attach(&buf, csvFilename(bs.Exam), "text/csv"); err != nil {
		return errors.Wrap(err, "attaching csv")
	}
	api.mailSvc.SendMessages(msg)

	return ctx.JSON(http.StatusAccepted, echo.Map{"success": "the broadsheet will be sent shortly"})
}

func csvFilename(ex exam.Exam) string {
	name := strings.ToLower(strings.Join(strings.Fields(ex.Name), "-"))
	if name == "" {
		name = "exam-" + strconv.Itoa(ex.ID)
	}
	return name + "-broadsheet.csv"
}
