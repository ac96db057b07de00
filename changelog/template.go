package changelog

const restTemplate = `{{ or .Name "Changelog" }}
{{ underline (or .Name "Changelog") "=" }}

{{ range .Releases }}
{{ title . }}
{{ underline (title .) "-" }}
{{ range .Sections }}
{{ .Label }}
{{ underline .Label "~" }}

{{ range .Entries }}- {{ finaldot (ucfirst .Subject) }}{{ with .Author }} [{{ . }}]{{ end }}{{ with .Body }}
{{ indent 2 . }}{{ end }}
{{ end }}{{ end }}{{ end }}`

const markdownTemplate = `# {{ or .Name "Changelog" }}
{{ range .Releases }}
## {{ title . }}
{{ range .Sections }}
### {{ .Label }}

{{ range .Entries }}* {{ finaldot (ucfirst .Subject) }}{{ with .Author }} [{{ . }}]{{ end }}{{ with .Body }}
{{ indent 2 . }}{{ end }}
{{ end }}{{ end }}{{ end }}`
