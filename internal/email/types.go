package email

// Email - одно письмо. Body - текстовая версия, HTMLBody - необязательная HTML-альтернатива.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

const TemplateActivation = "activation"
