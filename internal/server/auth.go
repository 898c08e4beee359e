package server

import (
	"net/http"
	"time"

	"civicwatch/internal"
	"civicwatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME); err == nil {
		http.Redirect(w, r, "/reports", http.StatusSeeOther)
		return
	}

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Sign In"},
	}
	if r.URL.Query().Get("confirmed") == "true" {
		data.Message = "Account confirmed. You can sign in now."
	}

	if err := s.renderTemplate(w, r, "page.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page")
		s.internalServerError(w)
	}
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	resp, err := s.cognitoClient.InitiateAuth(r.Context(), &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		// Covers NotAuthorizedException, UserNotConfirmedException, and
		// friends; the distinction is not surfaced to the visitor.
		s.renderLoginError(w, r, email, "Invalid credentials")
		return
	}

	result := resp.AuthenticationResult
	if result == nil || result.AccessToken == nil {
		s.renderLoginError(w, r, email, "Login failed")
		return
	}

	encrypted, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, aws.ToString(result.AccessToken))
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.renderLoginError(w, r, email, "Login failed")
		return
	}

	s.setSessionCookie(w, internal.COOKIE_ACCESS_TOKEN_NAME, encrypted, int(result.ExpiresIn))

	// An unauthenticated visit to a protected page leaves a redirect cookie
	// behind; honor it once and clear it.
	if redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME); err == nil {
		s.setSessionCookie(w, internal.COOKIE_REDIRECT_NAME, "", -1)
		http.Redirect(w, r, redirectCookie.Value, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setSessionCookie(w, internal.COOKIE_ACCESS_TOKEN_NAME, "", -1)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Service) renderLoginError(w http.ResponseWriter, r *http.Request, email, msg string) {
	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Sign In"},
		Email:        email,
		Error:        msg,
	}

	if err := s.renderTemplate(w, r, "page.login", data); err != nil {
		s.logger.WithError(err).Error("failed to render login page with error")
		s.internalServerError(w)
	}
}

// setSessionCookie writes a hardened cookie; a negative maxAge clears it.
func (s *Service) setSessionCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	s.setSessionCookie(w, internal.COOKIE_REDIRECT_NAME, path, int(age.Seconds()))
}
