package server

import (
	"net/http"

	"civicwatch/pkg/types"
)

// renderTemplate executes a named template, first injecting navbar identity
// state into any page data that accepts it.
func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) error {
	if setter, ok := data.(types.NavbarDataSetter); ok {
		ctx := r.Context()
		userID, _ := ctx.Value(contextKeyUserID).(string)
		email, _ := ctx.Value(contextKeyEmail).(string)
		displayName, _ := ctx.Value(contextKeyName).(string)

		setter.SetNavbarData(types.NavbarData{
			IsAuthenticated: userID != "",
			UserID:          userID,
			UserEmail:       email,
			UserName:        displayName,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, name, data)
}
