package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazekiller/gyan/core/access"
	"github.com/hazekiller/gyan/core/user"
	testutil "github.com/hazekiller/gyan/tests"
)

func Test_userApi_login(t *testing.T) {
	pwd := "Tr0ub4dor&3x"
	testutil.CreateUser(t, usrRepo, "Login Teacher", "loginteacher", "login.teacher@school.test", pwd, []string{user.RoleTeacher}, true)
	testutil.CreateUser(t, usrRepo, "Gone", "goneteacher", "gone@school.test", pwd, []string{user.RoleTeacher}, false)

	tests := []httpTest{
		{
			name: "missing fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"username": "this field is required", "password": "this field is required"}`),
		},
		{
			name: "unknown user", body: []byte(`{"username": "nobody", "password": "x"}`), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: []byte(`{"username": "loginteacher", "password": "nope"}`), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated", body: []byte(`{"username": "gone@school.test", "password": "` + pwd + `"}`), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "by username", body: []byte(`{"username": " LoginTeacher ", "password": "` + pwd + `"}`), wantCode: http.StatusOK},
		{name: "by email", body: []byte(`{"username": "login.teacher@school.test", "password": "` + pwd + `"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method = http.MethodPost
			tt.path = "/v1/users/login"
			rec := serve(tt)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var res LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				claims := new(Claims)
				_, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
					return []byte(conf.SecretKey), nil
				})
				require.NoError(t, err)
				assert.Equal(t, "loginteacher", claims.Username)
				assert.True(t, claims.IsTeacher)
			}
		})
	}
}

func Test_userApi_me(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Me Teacher", "meteacher", "me.teacher@school.test", "", []string{user.RoleTeacher}, true)
	accountant := testutil.CreateUser(t, usrRepo, "Me Accountant", "meaccountant", "", "", []string{user.RoleAccountant}, true)

	views := func(roles []string, vs ...access.View) []byte {
		return marshalObj(t, ViewsResponse{Roles: roles, Views: vs})
	}

	tests := []httpTest{
		{name: "auth required", path: "/v1/users/me", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "me", path: "/v1/users/me", token: getToken(t, teacher), wantCode: http.StatusOK, wantData: marshalObj(t, teacher)},
		{
			name: "views (teacher)", path: "/v1/users/me/views", token: getToken(t, teacher), wantCode: http.StatusOK,
			wantData: views(teacher.Roles, access.DefaultPolicy.Views(teacher.Roles).Sorted()...),
		},
		{
			name: "views (accountant)", path: "/v1/users/me/views", token: getToken(t, accountant), wantCode: http.StatusOK,
			wantData: views(accountant.Roles, access.ViewDashboard, access.ViewPayroll, access.ViewStudents),
		},
		{
			name: "unknown user", path: "/v1/users/me", token: getToken(t, user.User{ID: "ghost"}), wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, httpErr{Error: "user not authenticated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, serve(tt))
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Refresh Teacher", "refreshteacher", "", "", []string{user.RoleTeacher}, true)

	tt := httpTest{method: http.MethodPost, path: "/v1/users/token-refresh", wantCode: http.StatusUnauthorized}
	checkCodeAndData(t, tt, serve(tt))

	tt.token = getToken(t, teacher)
	tt.wantCode = http.StatusOK
	checkCodeAndData(t, tt, serve(tt))

	// refresh window elapsed
	claims := GetUserClaims(teacher, conf, nowFunc().Add(-5*conf.JWTRefreshExpirationDelta).Unix())
	token, err := GenerateToken(claims, conf)
	require.NoError(t, err)
	tt.token = token
	tt.wantCode = http.StatusForbidden
	tt.wantData = marshalObj(t, httpErr{Error: "refresh has expired"})
	checkCodeAndData(t, tt, serve(tt))
}
