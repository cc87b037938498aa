package handler

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

const popupCloseDelayMillis = 5000

var successPage = template.Must(template.New("google-success").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Google Calendar Connected</title></head>
<body style="font-family:Arial,sans-serif;text-align:center;padding:40px;">
  <h2 style="color:#1a56db;">Google Calendar connected</h2>
  <p>Signed in as <strong>{{.Email}}</strong>.</p>
  {{if .Sync}}<p>{{.Summary}}</p>{{end}}
  <p>This window will close in 5 seconds.</p>
  <script>
    (function () {
      var payload = {type: "google-auth-success", email: {{.Email}}, sync: {{.Sync}}};
      if (window.opener) {
        window.opener.postMessage(payload, {{.Origin}});
      }
      setTimeout(function () { window.close(); }, {{.Delay}});
    })();
  </script>
</body>
</html>`))

var errorPage = template.Must(template.New("google-error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Google Calendar Connection Failed</title></head>
<body style="font-family:Arial,sans-serif;text-align:center;padding:40px;">
  <h2 style="color:#b91c1c;">Authentication failed</h2>
  <p>{{.Message}}</p>
  {{if .Detail}}<pre style="color:#6b7280;white-space:pre-wrap;">{{.Detail}}</pre>{{end}}
  <script>
    (function () {
      if (window.opener) {
        window.opener.postMessage({type: "google-auth-error", error: {{.Message}}}, {{.Origin}});
      }
      setTimeout(function () { window.close(); }, {{.Delay}});
    })();
  </script>
</body>
</html>`))

type successView struct {
	Email   string
	Sync    *models.SyncResult
	Summary string
	Origin  string
	Delay   int
}

type errorView struct {
	Message string
	Detail  string
	Origin  string
	Delay   int
}

// classifyOAuthFailure maps provider error text to a message the student can act on.
func classifyOAuthFailure(text string) string {
	switch {
	case strings.Contains(text, "invalid_grant"):
		return "The authorization code has expired or was already used. Please connect your calendar again."
	case strings.Contains(text, "redirect_uri_mismatch"):
		return "The redirect URI is not configured correctly. Please contact support."
	case strings.Contains(text, "invalid_client"):
		return "The application's OAuth credentials are invalid. Please contact support."
	default:
		return "We could not connect your Google account. Please try again."
	}
}

func renderPage(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
