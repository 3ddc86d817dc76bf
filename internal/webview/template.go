package webview

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Enriched texts</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.cols { display: flex; gap: 2em; }
.cols > div { flex: 1; }
.label { font-weight: bold; margin-top: 1em; }
.error { color: #b00; font-weight: bold; }
</style>
</head>
<body>
<h1>Enriched texts</h1>
{{if .Error}}
<p class="error">{{.Error}}</p>
{{else}}
<form method="get" action="/">
<select name="doc" onchange="this.form.submit()">
{{range $i, $t := .Titles}}<option value="{{inc $i}}"{{if eq (inc $i) $.Selected}} selected{{end}}>{{$t}}</option>
{{end}}</select>
<noscript><button type="submit">Show</button></noscript>
</form>
{{with .Doc}}
<h2>{{.Title}}</h2>
<div class="cols">
<div>{{range .Left}}<div class="label">{{.Label}}</div><div>{{.Value}}</div>{{end}}</div>
<div>{{range .Right}}<div class="label">{{.Label}}</div><div>{{.Value}}</div>{{end}}</div>
</div>
{{range .Bottom}}<div class="label">{{.Label}}</div><div>{{.Value}}</div>{{end}}
{{else}}
<p>No documents to show.</p>
{{end}}
{{end}}
</body>
</html>
`
