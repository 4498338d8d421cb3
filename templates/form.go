package templates

// Form renders one step of the wizard. Elements are drawn according to their
// type; choice elements list their options.
const Form = `
{{ define "content" }}
<form class="wizard" action="/" method="post" novalidate>
	<input type="text" name="_honey" value="" style="display:none" tabindex="-1" autocomplete="off">
	<div class="step-header">
		<h2>{{ .page.Title }}</h2>
		<p class="subtitle">{{ .page.Description }}</p>
	</div>
	{{ if .failure }}
		<div class="alert" role="alert">{{ .failure }}</div>
	{{ end }}
	{{ with .intro }}<div class="note">{{ . }}</div>{{ end }}
	{{ range $e := .page.Elements }}
		<div class="field{{ if $e.Required }} required{{ end }}{{ if $e.Error }} has-error{{ end }}" id="field-{{ $e.Name }}">
			{{ if eq $e.Type "select" }}
				<label for="{{ $e.ID }}">{{ $e.Label }}</label>
				<select id="{{ $e.ID }}" name="{{ $e.Name }}" {{ if $e.Required }}required{{ end }}>
					<option value="">{{ $e.Placeholder }}</option>
					{{ range $o := $e.Options }}
						<option value="{{ $o.Value }}" {{ if $o.Checked }}selected{{ end }}>{{ $o.Label }}</option>
					{{ end }}
				</select>
			{{ else if eq $e.Type "checkbox" }}
				<fieldset>
					<legend>{{ $e.Label }}</legend>
					{{ range $idx, $o := $e.Options }}
						<div class="choice{{ if $o.Checked }} checked{{ end }}">
							<input type="checkbox" id="{{ $e.ID }}-{{ $idx }}" name="{{ $e.Name }}" value="{{ $o.Value }}" {{ if $o.Checked }}checked{{ end }}>
							<label for="{{ $e.ID }}-{{ $idx }}">{{ $o.Label }}</label>
						</div>
					{{ end }}
				</fieldset>
			{{ else }}
				<label for="{{ $e.ID }}">{{ $e.Label }}</label>
				<input type="{{ $e.Type }}" id="{{ $e.ID }}" name="{{ $e.Name }}" value="{{ $e.Value }}" placeholder="{{ $e.Placeholder }}" {{ if $e.Required }}required{{ end }}>
			{{ end }}
			{{ if $e.Description }}<span class="help">{{ $e.Description }}</span>{{ end }}
			{{ if $e.Error }}<p class="error">{{ $e.Error }}</p>{{ end }}
		</div>
	{{ end }}
	{{ with .notes }}
		<div class="notes">
			<p>Important information about your authorization:</p>
			<ul>{{ range . }}<li>{{ . }}</li>{{ end }}</ul>
		</div>
	{{ end }}
	{{ with .summary }}
		<div class="summary">
			<h3>Information Summary</h3>
			{{ range . }}<p><strong>{{ .Label }}:</strong> {{ .Value }}</p>{{ end }}
		</div>
	{{ end }}
	<div class="buttons">
		{{ if .final }}
			<button type="submit" name="action" value="submit" class="primary">Get My Free Quote</button>
		{{ else }}
			<button type="submit" name="action" value="next" class="primary">Continue</button>
		{{ end }}
		{{ if not .first }}
			<button type="submit" name="action" value="back" formnovalidate>Back</button>
		{{ end }}
	</div>
	{{ if .final }}
		<p class="terms">By submitting this form, you agree to our Terms of Service and Privacy Policy</p>
	{{ end }}
</form>
{{ end }}
`

// Processing is shown while the submission is being relayed. The page
// reloads itself until the delivery finished.
const Processing = `
{{ define "head" }}<meta http-equiv="refresh" content="2">{{ end }}
{{ define "content" }}
<div class="processing">
	<h2>{{ .page.Title }}</h2>
	<p class="subtitle">We are sending your request to our installers.</p>
	<button type="button" class="primary" disabled>Processing...</button>
</div>
{{ end }}
`

// Thanks is the terminal page after a successful submission.
const Thanks = `
{{ define "content" }}
<div class="thanks">
	<h2>Thank You{{ with .firstName }}, {{ . }}{{ end }}!</h2>
	<p>Your solar quote request has been submitted successfully. We appreciate your interest in making the switch to clean, renewable energy!</p>
	<div class="next-steps">
		<h3>Your Solar Journey Begins</h3>
		<ol>
			<li><strong>Application Review:</strong> Our team will review your information within 24 hours</li>
			<li><strong>Savings Analysis:</strong> A solar specialist will analyze your potential savings based on your location, roof conditions, and energy usage</li>
			<li><strong>Custom Proposal:</strong> You'll receive your personalized solar quote via email</li>
			<li><strong>Consultation:</strong> A solar consultant will reach out to answer any questions</li>
		</ol>
		<p class="tip"><strong>Pro Tip:</strong> Prepare for your consultation by gathering a recent electric bill to help our experts provide the most accurate savings estimate.</p>
	</div>
	<p class="support">Having trouble? Contact our support team at <a href="mailto:support@solarcompany.com">support@solarcompany.com</a> or call <a href="tel:+18005551234">(800) 555-1234</a></p>
	<form action="/restart" method="post">
		<button type="submit" class="primary">Submit Another Request</button>
	</form>
</div>
{{ end }}
`
