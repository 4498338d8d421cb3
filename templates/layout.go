package templates

// Layout is the main site template. It includes the header and footer and
// embeds the content for every other page.
var Layout = `
{{ define "layout" }}
<!DOCTYPE html>
<html lang="en">
	<head>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1">
		{{ block "head" . }}{{ end }}
		<link rel="stylesheet" href="/assets/solarform.css">
		<title>Solar Energy Savings Calculator</title>
	</head>
	<body>
		<div class="card">
			<div class="header">
				<h1>Solar Energy Savings Calculator</h1>
				<p class="tagline">Get a personalized quote from certified local installers</p>
				{{ block "progress" . }}{{ end }}
			</div>
			<div class="body">
				{{ template "content" . }}
			</div>
		</div>
		<footer>
			<div class="links">
				<a href="/">Get a Quote</a>
				<a href="mailto:support@solarcompany.com">support@solarcompany.com</a>
				<a href="tel:+18005551234">(800) 555-1234</a>
			</div>
		</footer>
	</body>
</html>
{{ end }}
`

// Progress renders the step counter and completion bar. It expects the
// "step", "steps" and "progress" keys of the page data.
var Progress = `
{{ define "progress" }}
<div class="progress">
	<div class="progress-labels">
		<span>Step {{ .step }} of {{ .steps }}</span>
		<span>{{ .progress }}% Complete</span>
	</div>
	<div class="progress-track">
		<div class="progress-bar" style="width: {{ .progress }}%"></div>
	</div>
</div>
{{ end }}
`
