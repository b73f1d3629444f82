package router

// PageNamePrefix prefixes the translation key of a page label.
const PageNamePrefix = "PageName."

// Translator translates message keys. Unknown keys translate to themselves.
type Translator interface {
	Translate(key string) string
}

// TranslatorFunc is a function adapter for Translator.
type TranslatorFunc func(key string) string

// Translate implements Translator.
func (f TranslatorFunc) Translate(key string) string {
	return f(key)
}

// ControllerPage is a scanned page backed by a server controller.
type ControllerPage struct {
	// Label is the translated page name.
	Label string `json:"label"`

	// Value is the controller name.
	Value string `json:"value"`

	RouteRecord
}

// ControllerPages lists the scanned top-level pages whose component
// declares a controller, labelled with the translation of
// "PageName.<route name>". A nil translator leaves keys untranslated.
func (r *Router) ControllerPages(tr Translator) []ControllerPage {
	var pages []ControllerPage
	for _, route := range r.files {
		if route.Controller == "" {
			continue
		}
		key := PageNamePrefix + route.Name
		label := key
		if tr != nil {
			label = tr.Translate(key)
		}
		pages = append(pages, ControllerPage{
			Label:       label,
			Value:       route.Controller,
			RouteRecord: route,
		})
	}
	return pages
}
