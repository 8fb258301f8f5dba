package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/quiffman/BulbdialClock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Bulbdial Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.time { font-size: 1.6em; font-weight: bold; }
.set { color: green; }
.unset { color: orange; }
.present { color: green; }
.absent { color: #888; }
</style>
</head>
<body>
<h1>Bulbdial Clock</h1>

<h2>Clock</h2>
<table>
<tr><th>Time</th><td class="time {{if .Unset}}unset{{else}}set{{end}}">{{.Clock}}</td></tr>
<tr><th>Mode</th><td>{{.Mode}}{{if .SubState}} (step {{.SubState}}){{end}}</td></tr>
<tr><th>Time set</th><td>{{if .Unset}}no, blinking{{else}}yes{{end}}</td></tr>
</table>

<h2>Time Sources</h2>
<table>
<tr><th>RTC</th><td class="{{if .RTCPresent}}present{{else}}absent{{end}}">{{if .RTCPresent}}present{{else}}absent{{end}}</td></tr>
<tr><th>Serial</th><td class="{{if .SerialOn}}present{{else}}absent{{end}}">{{if .SerialOn}}{{.Config.SerialDev}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>Settings</h2>
<table>
<tr><th>Main brightness</th><td>{{.Settings.MainBright}} / 8</td></tr>
<tr><th>Hour ring</th><td>{{.Settings.HourBright}} / 63</td></tr>
<tr><th>Minute ring</th><td>{{.Settings.MinuteBright}} / 63</td></tr>
<tr><th>Second ring</th><td>{{.Settings.SecondBright}} / 63</td></tr>
<tr><th>Direction</th><td>{{if .Settings.CCW}}counter-clockwise{{else}}clockwise{{end}}</td></tr>
<tr><th>Fade</th><td>{{.Settings.Fade}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Settings saves</th><td>{{.Counts.Saves}}</td></tr>
<tr><th>Serial syncs</th><td>{{.Counts.Syncs}}</td></tr>
<tr><th>RTC corrections</th><td>{{.Counts.Corrections}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Dwell unit</th><td>{{.Config.DwellUnitUs}}us</td></tr>
<tr><th>Settings file</th><td>{{.Config.SettingsPath}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
{{if .Config.Sim}}<tr><th>Display</th><td>simulated</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
