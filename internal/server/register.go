package server

import (
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"civicwatch/internal"
	"civicwatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

func (s *Service) handleGetRegister(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.renderRegister(w, r, &types.RegisterPageData{
		BasePageData: types.BasePageData{Title: "Create Account"},
	})
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	password := r.FormValue("password")
	confirmPassword := r.FormValue("confirm_password")

	data := &types.RegisterPageData{
		BasePageData: types.BasePageData{Title: "Create Account"},
		Name:         name,
		Email:        email,
	}

	if data.FieldErrors = validateRegisterInput(name, email, password, confirmPassword); len(data.FieldErrors) > 0 {
		data.Error = "Please fix the highlighted fields."
		s.renderRegister(w, r, data)
		return
	}

	// Email doubles as the Cognito username; the phone attribute is optional.
	attributes := []ctypes.AttributeType{
		{Name: aws.String("email"), Value: aws.String(email)},
		{Name: aws.String("name"), Value: aws.String(name)},
	}
	if phone != "" {
		attributes = append(attributes, ctypes.AttributeType{Name: aws.String("phone_number"), Value: aws.String(phone)})
	}

	_, err := s.cognitoClient.SignUp(r.Context(), &cognitoidentityprovider.SignUpInput{
		ClientId:       aws.String(s.config.CognitoClientID),
		Username:       aws.String(email),
		Password:       aws.String(password),
		UserAttributes: attributes,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to sign up user")

		data.Error = "Unable to create account. Please try again."
		var exists *ctypes.UsernameExistsException
		if errors.As(err, &exists) {
			data.FieldErrors = map[string]string{"email": "An account with this email already exists."}
			data.Error = "Please fix the highlighted fields."
		}

		s.renderRegister(w, r, data)
		return
	}

	v := url.Values{}
	v.Set("email", email)
	http.Redirect(w, r, "/register/confirm?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) handleGetRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	s.renderRegisterConfirm(w, r, &types.RegisterPageData{
		BasePageData: types.BasePageData{Title: "Confirm Your Account"},
		Email:        strings.TrimSpace(r.URL.Query().Get("email")),
	})
}

func (s *Service) handlePostRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	code := strings.TrimSpace(r.FormValue("code"))

	_, err := s.cognitoClient.ConfirmSignUp(r.Context(), &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(s.config.CognitoClientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to confirm signup")

		data := &types.RegisterPageData{
			BasePageData: types.BasePageData{Title: "Confirm Your Account"},
			Email:        email,
			Error:        "Unable to confirm account. Please try again.",
		}
		var mismatch *ctypes.CodeMismatchException
		if errors.As(err, &mismatch) {
			data.Error = "Invalid confirmation code. Please check the code and try again."
		}

		s.renderRegisterConfirm(w, r, data)
		return
	}

	http.Redirect(w, r, "/login?confirmed=true", http.StatusSeeOther)
}

func (s *Service) renderRegister(w http.ResponseWriter, r *http.Request, data *types.RegisterPageData) {
	if err := s.renderTemplate(w, r, "page.register", data); err != nil {
		s.logger.WithError(err).Error("failed to render register page")
		s.internalServerError(w)
	}
}

func (s *Service) renderRegisterConfirm(w http.ResponseWriter, r *http.Request, data *types.RegisterPageData) {
	if err := s.renderTemplate(w, r, "page.register.confirm", data); err != nil {
		s.logger.WithError(err).Error("failed to render register confirm page")
		s.internalServerError(w)
	}
}

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func validateRegisterInput(name, email, password, confirmPassword string) map[string]string {
	errs := map[string]string{}

	if name == "" {
		errs["name"] = "Name is required."
	}

	if email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	if password != confirmPassword {
		errs["confirm_password"] = "Passwords do not match."
	}

	if len(password) < 8 ||
		!upperRe.MatchString(password) ||
		!lowerRe.MatchString(password) ||
		!digitRe.MatchString(password) ||
		!symbolRe.MatchString(password) {
		errs["password"] = "Password must be at least 8 characters with upper and lower case letters, a digit, and a symbol."
	}

	return errs
}
