package templates

// LogView template for displaying the delivery log in a list.
const LogView = `
{{define "content"}}
	<h2>Delivery log</h2>
	{{if .session}}<p class="filter">Attempts of session {{.session}} <a href="/log">(show all)</a></p>{{end}}
	<table class="log">
		<thead>
			<tr>
				<th>ID</th>
				<th>Variant</th>
				<th>Status</th>
				<th>Submitted</th>
				<th>Finished</th>
				<th>Error</th>
			</tr>
		</thead>
		<tbody>
			{{range $d := .deliveries}}
				<tr class="{{$d.Status}}">
					<td><a href="/log/{{$d.ID}}">D{{$d.ID}}</a></td>
					<td>{{$d.Variant}}</td>
					<td>{{$d.Status}}</td>
					<td>{{$d.SubmitTime.Format $.timefmt}}</td>
					<td>{{if $d.IsFinished}}{{$d.EndTime.Format $.timefmt}}{{end}}</td>
					<td>{{$d.Error}}</td>
				</tr>
			{{else}}
				<tr><td colspan="6">No deliveries yet</td></tr>
			{{end}}
		</tbody>
	</table>
{{end}}
`

// DeliveryView shows a single delivery.
const DeliveryView = `
{{define "content"}}
	<h2>Delivery D{{.delivery.ID}}</h2>
	<dl class="delivery">
		<dt>Variant</dt><dd>{{.delivery.Variant}}</dd>
		<dt>Status</dt><dd>{{.delivery.Status}}</dd>
		<dt>Submitted</dt><dd>{{.submit_time}}</dd>
		{{if .end_time}}
			<dt>Finished</dt><dd>{{.end_time}} ({{.duration}})</dd>
		{{else}}
			<dt>Finished</dt><dd>In queue</dd>
		{{end}}
		{{if .delivery.Message}}<dt>Message</dt><dd>{{.delivery.Message}}</dd>{{end}}
		{{if .delivery.Error}}<dt>Error</dt><dd class="error">{{.delivery.Error}}</dd>{{end}}
	</dl>
	<p><a href="/log?session={{.delivery.SessionID}}">All attempts of this session</a> | <a href="/log">Back to the log</a></p>
{{end}}
`
