package unlockpage

import (
	"bytes"
	"html/template"

	"unlockbot/models"
)

// SDKSource — внешний скрипт рекламной сети, который регистрирует функцию show_<zone>.
const SDKSource = "//libtl.com/sdk.js"

// Labels — подписи на странице. Генератор их не переводит.
type Labels struct {
	Language     string
	JoinChannels string
	Views        string
	Unlock       string
}

// DefaultLabels — подписи для основной аудитории бота.
var DefaultLabels = Labels{
	Language:     "Language",
	JoinChannels: "📢 জয়েন করুন:",
	Views:        "অ্যাড দেখা হয়েছে",
	Unlock:       "আনলক",
}

type pageData struct {
	Post           models.Post
	ZoneID         string
	AdFunction     string
	RequiredClicks int
	Labels         Labels
}

var pageTemplate = template.Must(template.New("unlock").Parse(pageHTML))

// Render строит самодостаточную HTML-страницу разблокировки.
// Результат зависит только от аргументов: одинаковый вход даёт побайтно одинаковый выход.
func Render(post models.Post, zoneID string, requiredClicks int) (string, error) {
	if requiredClicks < 0 {
		requiredClicks = 0
	}
	data := pageData{
		Post:           post,
		ZoneID:         zoneID,
		AdFunction:     "show_" + zoneID,
		RequiredClicks: requiredClicks,
		Labels:         DefaultLabels,
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Протокол разблокировки: счётчик живёт только в пределах просмотра страницы.
// Пока c < need, нажатие пытается показать рекламу и в любом случае увеличивает счётчик.
// Когда c >= need, нажатие переходит по ссылке кнопки.
const pageHTML = `<!DOCTYPE html><html><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"><title>{{.Post.Title}}</title>
<script src="` + SDKSource + `" data-zone="{{.ZoneID}}" data-sdk="{{.AdFunction}}"></script>
<style>body{font-family:sans-serif;background:#0f172a;color:white;text-align:center;padding:20px;display:flex;justify-content:center;align-items:center;min-height:100vh;}
.card{background:#1e293b;padding:20px;border-radius:15px;border:1px solid #334155;max-width:400px;width:100%;box-shadow:0 10px 25px rgba(0,0,0,0.5);}img{width:100%;border-radius:10px;margin-bottom:15px;object-fit:cover;}
.channel-box{background:rgba(59,130,246,0.1);padding:10px;margin-bottom:15px;border-radius:10px;border:1px dashed #3b82f6;}
.ch-link{display:inline-block;background:#3b82f6;color:white;text-decoration:none;padding:8px 15px;margin:4px;border-radius:6px;font-size:14px;font-weight:bold;}
.btn{background:#2563eb;color:white;padding:14px;width:100%;border-radius:10px;margin:10px 0;border:none;font-weight:bold;cursor:pointer;transition:0.3s;}
.q-btn{background:#334155;border:1px solid #475569;}#st{color:#fbbf24;margin-bottom:10px;font-weight:bold;}.lang{color:#94a3b8;}</style></head>
<body><div class="card"><img src="{{.Post.Image}}" alt=""><h2>{{.Post.Title}}</h2><p class="lang">{{.Labels.Language}}: {{.Post.Language}}</p>
{{- if .Post.Channels}}<div class="channel-box"><h3>{{.Labels.JoinChannels}}</h3>{{range .Post.Channels}}<a href="{{.Link}}" target="_blank" rel="noopener" class="ch-link">{{.Name}}</a>{{end}}</div>{{end}}
<div id="st">{{.Labels.Views}}: 0/{{.RequiredClicks}}</div>
{{- range .Post.Links}}
<button class="btn q-btn" data-href="{{.Link}}" onclick="unlock(this)">{{.Quality}} - {{$.Labels.Unlock}}</button>
{{- end}}
</div>
<script>
var c = 0;
var need = {{.RequiredClicks}};
var adFn = {{.AdFunction}};
var viewsLabel = {{.Labels.Views}};
function unlock(btn) {
  var u = btn.getAttribute("data-href");
  if (c >= need) {
    location.href = u;
    return;
  }
  try {
    var show = window[adFn];
    if (typeof show === "function") {
      var p = show();
      if (p && typeof p.catch === "function") {
        p.catch(function () {});
      }
    }
  } catch (e) {}
  c++;
  document.getElementById("st").innerText = viewsLabel + ": " + c + "/" + need;
}
</script></body></html>`
