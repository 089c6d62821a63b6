package http

import (
	"html/template"
	"net/http"
)

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="post" action="/">
    <textarea name="query" rows="4" cols="80" placeholder="Enter your query here...">{{.Query}}</textarea>
    <br />
    <button type="submit">Submit</button>
</form>
{{if .Error}}<p role="alert"><strong>Error:</strong> {{.Error}}</p>{{end}}
{{with .Result}}
<section>
    <p><strong>Category:</strong> {{.Category}}</p>
    <p><strong>Sentiment:</strong> {{.Sentiment}}</p>
    <p><strong>Response:</strong> {{.Response}}</p>
</section>
{{end}}
</body>
</html>
`))

type formView struct {
	Title  string
	Query  string
	Error  string
	Result *formResult
}

type formResult struct {
	Category  string
	Sentiment string
	Response  string
}

func (s *Server) renderForm(w http.ResponseWriter, status int, view formView) {
	view.Title = s.title
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, view); err != nil {
		s.logger.Error("form render failed", "error", err)
	}
}
