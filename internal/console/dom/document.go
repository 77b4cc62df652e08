// Package dom — потокобезопасное дерево документа консоли в памяти.
//
// Элементы адресуются селекторами DOM-контракта (view.*). Оболочка
// страницы забирает Snapshot и переносит его в настоящий DOM браузера.
package dom

import (
	"slices"
	"strings"
	"sync"

	"github.com/xela07ax/threatintel-console/internal/console/view"
)

// Element хранит состояние одного узла. Text и HTML взаимоисключающие, как в DOM.
// Атрибут class целиком принадлежит документу.
type Element struct {
	Text  string `json:"text"`
	HTML  string `json:"html"`
	Class string `json:"class"`
	// Content — что записано последним: "", ContentText или ContentHTML.
	// Пустая строка: содержимое страницы не трогаем.
	Content string `json:"content,omitempty"`
}

const (
	ContentText = "text"
	ContentHTML = "html"
)

type Document struct {
	mu            sync.RWMutex
	version       uint64
	elements      map[string]*Element
	forms         map[string]uint64 // поколение сброса формы
	charts        map[string]*chart
	chartDefaults view.ChartDefaults
}

type Option func(*Document)

// WithTabs регистрирует пункты меню и панели вкладок; первая вкладка активна.
func WithTabs(tabs ...string) Option {
	return func(d *Document) {
		for i, tab := range tabs {
			nav, panel := "nav-item", "view"
			if i == 0 {
				nav, panel = "nav-item active", "view active"
			}
			d.elements[view.NavItem(tab)] = &Element{Class: nav}
			d.elements[view.Panel(tab)] = &Element{Class: panel}
		}
	}
}

// New строит документ со всеми элементами DOM-контракта.
func New(opts ...Option) *Document {
	d := &Document{
		elements: make(map[string]*Element),
		forms:    make(map[string]uint64),
		charts:   make(map[string]*chart),
	}

	for _, sel := range []string{
		view.AuthForm, view.APIKeyInput, view.LogoutBtn, view.RefreshBtn,
		view.LastUpdate, view.PageTitle,
		view.StatTotalReq, view.StatActiveUsers, view.StatRevenue, view.StatSystemLoad,
		view.TrafficCanvas, view.LatencyCanvas, view.StatusCanvas, view.CustomerCanvas, view.CapacityCanvas,
		view.CustomersBody, view.TestKeysBody, view.AuditBody,
		view.CreateKeyForm, view.NewKeyValue, view.LimitsList,
	} {
		d.elements[sel] = &Element{}
	}
	d.elements[view.AuthModal] = &Element{Class: "modal"}
	d.elements[view.StatusDot] = &Element{Class: "dot"}
	d.elements[view.StatusText] = &Element{Text: "Disconnected", Content: ContentText}
	d.elements[view.Sidebar] = &Element{Class: "sidebar"}
	d.elements[view.Main] = &Element{Class: "main-content"}
	d.elements[view.Toast] = &Element{Class: "toast hidden"}
	d.elements[view.NewKeyResult] = &Element{Class: view.Hidden}
	d.forms[view.CreateKeyForm] = 0

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// element возвращает узел, создавая его при первом обращении. Вызывать под mu.
func (d *Document) element(sel string) *Element {
	el, ok := d.elements[sel]
	if !ok {
		el = &Element{}
		d.elements[sel] = el
	}
	return el
}

func (d *Document) SetText(sel, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.element(sel)
	el.Text, el.HTML, el.Content = text, "", ContentText
	d.version++
}

func (d *Document) Text(sel string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if el, ok := d.elements[sel]; ok {
		return el.Text
	}
	return ""
}

func (d *Document) SetHTML(sel, html string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := d.element(sel)
	el.HTML, el.Text, el.Content = html, "", ContentHTML
	d.version++
}

func (d *Document) HTML(sel string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if el, ok := d.elements[sel]; ok {
		return el.HTML
	}
	return ""
}

func (d *Document) SetClass(sel, class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.element(sel).Class = class
	d.version++
}

func (d *Document) ToggleClass(sel, class string, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := d.element(sel)
	classes := strings.Fields(el.Class)
	has := slices.Contains(classes, class)
	switch {
	case on && !has:
		classes = append(classes, class)
	case !on && has:
		classes = slices.DeleteFunc(classes, func(c string) bool { return c == class })
	default:
		return
	}
	el.Class = strings.Join(classes, " ")
	d.version++
}

// HasClass проверяет наличие класса у узла.
func (d *Document) HasClass(sel, class string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[sel]
	if !ok {
		return false
	}
	return slices.Contains(strings.Fields(el.Class), class)
}

func (d *Document) Class(sel string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if el, ok := d.elements[sel]; ok {
		return el.Class
	}
	return ""
}

// ResetForm сдвигает поколение формы; оболочка очищает поля, увидев новое значение.
func (d *Document) ResetForm(sel string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.forms[sel]++
	d.version++
}

// FormGeneration считает сбросы формы
func (d *Document) FormGeneration(sel string) uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.forms[sel]
}

// Version растет на каждой мутации документа.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}
