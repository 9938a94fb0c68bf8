package session

import "github.com/desertthunder/grand/internal/models"

// Routes the guard knows about.
const (
	RouteLogin      = "/login"
	RouteRole       = "/role"
	RouteHogar      = "/hogar"
	RouteInicio     = "/inicio"
	RouteDescubrir  = "/descubrir"
	RouteEventos    = "/eventos"
	RouteActividad  = "/actividad"
	RouteOnboarding = "/onboarding"
)

var (
	publicRoutes    = []string{RouteLogin, RouteRole, RouteHogar}
	protectedRoutes = []string{RouteInicio, RouteDescubrir, RouteEventos, RouteActividad}
)

func matches(routes []string, pathname string) bool {
	for _, r := range routes {
		if pathname == r {
			return true
		}
	}
	return false
}

// ShouldRedirect returns where a visitor of pathname must go, or "" to stay.
//
// Public routes never redirect. Protected routes send visitors without a role to
// /login and simplified mode devices to /hogar.
func ShouldRedirect(state models.AuthState, pathname string) string {
	if matches(publicRoutes, pathname) {
		return ""
	}
	if !matches(protectedRoutes, pathname) {
		return ""
	}

	switch state.Role {
	case models.RoleNone:
		return RouteLogin
	case models.RoleHogar:
		return RouteHogar
	}
	return ""
}

// RedirectNotice is the message shown alongside a redirect from [ShouldRedirect].
// It returns "" when state needs no explanation.
func RedirectNotice(state models.AuthState) string {
	switch {
	case !state.IsLoggedIn:
		return "Necesitás iniciar sesión"
	case state.Role == models.RoleNone:
		return "Elegí un rol para continuar"
	case state.Role == models.RoleFamiliar && state.ProfileID == "":
		return "Seleccioná un perfil para continuar"
	}
	return ""
}
