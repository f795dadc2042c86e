package ui

import (
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wichananm65/pet-shop-storefront/internal/session"
)

var navTmpl = template.Must(template.New("nav").Parse(`{{if .LoggedIn -}}
<div class="user-info">
    <div class="user-avatar">
        {{- if .Image}}
        <img src="{{.Image}}" alt="{{.DisplayName}}" class="user-avatar-img">
        {{- end}}
        <div class="user-avatar-fallback">{{.Initial}}</div>
    </div>
    <span class="user-name">Welcome, {{.DisplayName}}</span>
    <button class="btn btn-logout" onclick="logout()">Logout</button>
</div>
{{- else -}}
<a href="/login" class="btn">Login</a>
<a href="/signup" class="btn btn-primary">Sign Up</a>
{{- end}}`))

// NavUser is what the navigation bar shows for the current session.
type NavUser struct {
	LoggedIn    bool
	DisplayName string
	Initial     string
	Image       string
}

// CurrentNavUser resolves the session into navigation bar values. A logged
// in session whose profile cannot be resolved shows as "User".
func CurrentNavUser(s *session.Session) NavUser {
	if !s.IsLoggedIn() {
		return NavUser{}
	}
	nu := NavUser{LoggedIn: true, DisplayName: "User", Initial: "U"}
	u := s.CurrentUser()
	if u == nil {
		return nu
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		nu.DisplayName = name
		r, _ := utf8.DecodeRuneInString(name)
		nu.Initial = string(unicode.ToUpper(r))
	}
	if u.Image != nil {
		nu.Image = *u.Image
	}
	return nu
}

// Navigation renders the user-actions fragment of the header.
func Navigation(s *session.Session) string {
	var sb strings.Builder
	_ = navTmpl.Execute(&sb, CurrentNavUser(s))
	return sb.String()
}

// Logout forgets the session; the next Navigation renders the anonymous links.
func Logout(s *session.Session) error {
	return s.Clear()
}
