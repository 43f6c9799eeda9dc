package user

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazekiller/gyan/core"
)

func TestPasswordPolicyTag(t *testing.T) {
	tests := []struct {
		name  string
		pwd   string
		uname string
		want  string
	}{
		{name: "too short", pwd: "aB1!", want: pwdMinLenTag},
		{name: "whitespace", pwd: "aB1! long pwd", want: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", want: pwdNotAllNumTag},
		{name: "no special", pwd: "abcDEF123", want: pwdComplexityTag},
		{name: "no upper", pwd: "abcdef1!", want: pwdComplexityTag},
		{name: "similar to username", pwd: "Ashish12!", uname: "ashish12", want: pwdAttrSimTag},
		{name: "valid", pwd: "Tr0ub4dor&3x", uname: "rahul01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, passwordPolicyTag(tt.pwd, "", tt.uname, ""))
		})
	}
}

func TestNewUserStructValidation(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	tests := []struct {
		name    string
		nu      NewUser
		wantErr map[string]string
	}{
		{
			name: "username or email required",
			nu:   NewUser{Name: "Ashish", Password: "Tr0ub4dor&3x", PasswordConfirm: "Tr0ub4dor&3x"},
			wantErr: map[string]string{
				"username": usernameOrEmailText,
				"email":    usernameOrEmailText,
			},
		},
		{
			name: "unknown role",
			nu: NewUser{
				Name: "Ashish", Username: "ashish", Password: "Tr0ub4dor&3x", PasswordConfirm: "Tr0ub4dor&3x",
				Roles: []string{RoleTeacher, "janitor:"},
			},
			wantErr: map[string]string{"roles": allRolesText},
		},
		{
			name: "weak password",
			nu:   NewUser{Name: "Ashish", Username: "ashish", Password: "12345678", PasswordConfirm: "12345678"},
			wantErr: map[string]string{"password": pwdNotAllNumText},
		},
		{
			name: "valid",
			nu: NewUser{
				Name: "Ashish", Email: "ashish@school.test", Password: "Tr0ub4dor&3x", PasswordConfirm: "Tr0ub4dor&3x",
				Roles: []string{RoleTeacher},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.nu)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "want validator.ValidationErrors, got %v", err)
			assert.Equal(t, tt.wantErr, core.TranslateValidationErrors(vErrs, translator))
		})
	}
}
