package pdf

// resumeTemplate 是简历 PDF 的 HTML 模板，按 A4 纸张排版。
const resumeTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page { size: A4; margin: 18mm 16mm; }
        body {
            margin: 0;
            font-family: 'Helvetica Neue', Arial, sans-serif;
            font-size: 10.5pt;
            line-height: 1.45;
            color: #222;
        }
        h1 {
            font-size: 24pt;
            color: #9945ff;
            margin: 0 0 18px;
        }
        h2 {
            font-size: 13pt;
            border-bottom: 1px solid #ddd;
            padding-bottom: 3px;
            margin: 16px 0 8px;
        }
        .entry { margin-bottom: 8px; }
        .muted { color: #666; }
        ul { margin: 4px 0; padding-left: 18px; }
    </style>
</head>
<body>
    <h1>Professional Resume</h1>

    <h2>Personal Information</h2>
    <div>Name: {{.Name}}</div>
    <div>Email: {{.Email}}</div>
    {{with .GitHub}}<div>GitHub: {{.}}</div>{{end}}
    {{with .LinkedIn}}<div>LinkedIn: {{.}}</div>{{end}}

    {{with .Summary}}
    <h2>Professional Summary</h2>
    <p>{{.}}</p>
    {{end}}

    {{with .Strengths}}
    <h2>Key Strengths</h2>
    <ul>{{range .}}<li>{{.}}</li>{{end}}</ul>
    {{end}}

    {{with .Skills}}
    <h2>Skills</h2>
    <p>{{.}}</p>
    {{end}}

    {{with .Experience}}
    <h2>Work Experience</h2>
    {{range .}}
    <div class="entry">
        <div><b>{{or .Position "N/A"}}</b> at {{or .Company "N/A"}}</div>
        <div class="muted">Duration: {{or .Duration "N/A"}}</div>
        {{with .Description}}<div>{{.}}</div>{{end}}
    </div>
    {{end}}
    {{end}}

    {{with .Education}}
    <h2>Education</h2>
    {{range .}}
    <div class="entry">
        <div><b>{{or .Degree "N/A"}}</b> from {{or .Institution "N/A"}}</div>
        <div class="muted">Year: {{or .Year "N/A"}}</div>
        {{with .GPA}}<div>GPA: {{.}}</div>{{end}}
    </div>
    {{end}}
    {{end}}

    {{with .Projects}}
    <h2>Projects</h2>
    {{range $i, $p := .}}
    <div class="entry">Project {{inc $i}}: {{or $p.URL "N/A"}}</div>
    {{end}}
    {{end}}
</body>
</html>
`
