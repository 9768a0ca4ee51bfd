package unlockpage

import (
	"strings"
	"testing"

	"github.com/dop251/goja"

	"unlockbot/models"
)

func samplePost() models.Post {
	return models.Post{
		ID:       "abc",
		Title:    "Movie <2025>",
		Image:    "https://img.example/poster.jpg",
		Language: "Bangla",
		Links: []models.QualityLink{
			{Quality: "1080p", Link: "https://dl.example/1080"},
			{Quality: "720p", Link: "https://dl.example/720"},
		},
	}
}

// TestRenderDeterministic проверяет побайтное совпадение двух рендеров.
func TestRenderDeterministic(t *testing.T) {
	p := samplePost()
	p.Channels = []models.ChannelLink{{Name: "A", Link: "https://t.me/a"}}

	first, err := Render(p, "555", 3)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	second, err := Render(p, "555", 3)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if first != second {
		t.Fatalf("рендер недетерминирован")
	}
}

// TestRenderContent проверяет порядок кнопок, экранирование и подключение SDK.
func TestRenderContent(t *testing.T) {
	html, err := Render(samplePost(), "555", 3)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !strings.Contains(html, `data-zone="555" data-sdk="show_555"`) {
		t.Fatalf("нет тега SDK с зоной")
	}
	if strings.Contains(html, "<2025>") || !strings.Contains(html, "Movie &lt;2025&gt;") {
		t.Fatalf("заголовок не экранирован")
	}
	i1080 := strings.Index(html, `data-href="https://dl.example/1080"`)
	i720 := strings.Index(html, `data-href="https://dl.example/720"`)
	if i1080 < 0 || i720 < 0 || i1080 > i720 {
		t.Fatalf("кнопки качеств отсутствуют или идут не по порядку")
	}
	if !strings.Contains(html, DefaultLabels.Views+": 0/3") {
		t.Fatalf("нет начального индикатора 0/3")
	}
}

// TestRenderChannelBlock проверяет, что блок каналов есть только при непустом списке.
func TestRenderChannelBlock(t *testing.T) {
	html, _ := Render(samplePost(), "555", 3)
	if strings.Contains(html, `class="channel-box"`) {
		t.Fatalf("блок каналов не должен выводиться без каналов")
	}

	p := samplePost()
	p.Channels = []models.ChannelLink{{Name: "A", Link: "https://t.me/a"}, {Name: "B", Link: "https://t.me/b"}}
	html, _ = Render(p, "555", 3)
	ia := strings.Index(html, `href="https://t.me/a"`)
	ib := strings.Index(html, `href="https://t.me/b"`)
	if !strings.Contains(html, `class="channel-box"`) || ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("блок каналов выведен неверно")
	}
}

// TestRenderRejectsScriptURL проверяет фильтрацию javascript:-ссылок.
func TestRenderRejectsScriptURL(t *testing.T) {
	p := samplePost()
	p.Links = []models.QualityLink{{Quality: "x", Link: "javascript:alert(1)"}}
	html, _ := Render(p, "555", 3)
	if strings.Contains(html, "javascript:alert") {
		t.Fatalf("опасная ссылка попала в страницу")
	}
}

// page — исполняемая страница: встроенный скрипт в goja с заглушками DOM.
type page struct {
	t  *testing.T
	vm *goja.Runtime
}

func loadPage(t *testing.T, html, setup string) *page {
	t.Helper()
	start := strings.LastIndex(html, "<script>")
	end := strings.LastIndex(html, "</script>")
	if start < 0 || end < start {
		t.Fatalf("встроенный скрипт не найден")
	}
	vm := goja.New()
	stubs := `var st = {innerText: ""};
var document = {getElementById: function (id) { return st; }};
var location = {href: ""};
var window = {};`
	if _, err := vm.RunString(stubs + setup); err != nil {
		t.Fatalf("заглушки: %v", err)
	}
	if _, err := vm.RunString(html[start+len("<script>") : end]); err != nil {
		t.Fatalf("скрипт страницы: %v", err)
	}
	return &page{t: t, vm: vm}
}

func (p *page) press(href string) {
	p.t.Helper()
	if _, err := p.vm.RunString(`unlock({getAttribute: function () { return "` + href + `"; }})`); err != nil {
		p.t.Fatalf("нажатие: %v", err)
	}
}

func (p *page) eval(expr string) string {
	p.t.Helper()
	v, err := p.vm.RunString(expr)
	if err != nil {
		p.t.Fatalf("%s: %v", expr, err)
	}
	return v.String()
}

// TestUnlockProtocolWithoutAdFunction: функция рекламы отсутствует, счётчик всё равно растёт.
func TestUnlockProtocolWithoutAdFunction(t *testing.T) {
	html, _ := Render(samplePost(), "555", 3)
	pg := loadPage(t, html, "")

	pg.press("https://dl.example/720")
	pg.press("https://dl.example/720")
	if got := pg.eval("location.href"); got != "" {
		t.Fatalf("после двух нажатий перехода быть не должно, получено %q", got)
	}
	if got := pg.eval("st.innerText"); !strings.HasSuffix(got, "2/3") {
		t.Fatalf("индикатор после двух нажатий: %q", got)
	}

	pg.press("https://dl.example/720")
	if got := pg.eval("c"); got != "3" {
		t.Fatalf("счётчик должен достичь 3, получено %s", got)
	}
	pg.press("https://dl.example/720")
	if got := pg.eval("location.href"); got != "https://dl.example/720" {
		t.Fatalf("ожидался переход по ссылке кнопки, получено %q", got)
	}
}

// TestUnlockProtocolCallsAdFunction проверяет вызов функции зоны и устойчивость к её ошибкам.
func TestUnlockProtocolCallsAdFunction(t *testing.T) {
	html, _ := Render(samplePost(), "555", 2)
	pg := loadPage(t, html, `var shown = 0;
window.show_555 = function () {
  shown++;
  if (shown === 1) { throw new Error("sdk"); }
  return Promise.reject(new Error("no fill"));
};`)

	pg.press("https://dl.example/1080")
	pg.press("https://dl.example/1080")
	if got := pg.eval("shown"); got != "2" {
		t.Fatalf("функция рекламы должна вызываться на каждом нажатии до порога, вызовов: %s", got)
	}
	if got := pg.eval("st.innerText"); !strings.HasSuffix(got, "2/2") {
		t.Fatalf("ошибки рекламы не должны блокировать счётчик: %q", got)
	}
	pg.press("https://dl.example/1080")
	if got := pg.eval("shown"); got != "2" {
		t.Fatalf("после порога реклама не вызывается, вызовов: %s", got)
	}
	if got := pg.eval("location.href"); got != "https://dl.example/1080" {
		t.Fatalf("ожидался переход, получено %q", got)
	}
}

// TestUnlockProtocolZeroClicks: при нулевом пороге первое нажатие сразу ведёт по ссылке.
func TestUnlockProtocolZeroClicks(t *testing.T) {
	html, _ := Render(samplePost(), "555", 0)
	pg := loadPage(t, html, "")
	pg.press("https://dl.example/720")
	if got := pg.eval("location.href"); got != "https://dl.example/720" {
		t.Fatalf("ожидался мгновенный переход, получено %q", got)
	}
}
