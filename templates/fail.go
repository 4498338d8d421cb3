package templates

// Fail is the error page. It expects StatusCode, StatusText and Message.
var Fail = `
{{ define "content" }}
<div class="fail">
	<h2>{{ .StatusCode }}: {{ .StatusText }}</h2>
	<div class="alert" role="alert">{{ .Message }}</div>
	<p>Your answers so far are kept. <a href="/">Return to your quote request</a> or contact
	<a href="mailto:support@solarcompany.com">support@solarcompany.com</a> if the problem persists.</p>
</div>
{{ end }}
`
