package language

// Text holds the interface strings shown around the conversation.
type Text struct {
	AppName          string
	AboutTitle       string
	About            string
	FAQTitle         string
	FAQs             []string
	InputPlaceholder string
	EmptyMessage     string
	LanguageSelector string
	BloodCenterLink  string
	SourcesHeader    string
	LanguageChanged  string
	Processing       string
	// ConversationCleared confirms a /reset.
	ConversationCleared string
}

var texts = map[Code]Text{
	English: {
		AppName:    "America's Blood Centers AI Assistant",
		AboutTitle: "About us",
		About: "Welcome to the America's Blood Centers AI Assistant. We bring together all our blood donation " +
			"information and services in one place so you can quickly find help or information.",
		FAQTitle: "FAQs",
		FAQs: []string{
			"How many people donate blood?",
			"Am I eligible to donate?",
			"Where can I donate blood?",
			"How can I support the blood supply other than donating?",
			"What legislation is actively affecting the blood supply?",
			"How can I write my member of congress to support the blood supply through legislation?",
		},
		InputPlaceholder: "Ask about blood donation, eligibility, or find a blood center...",
		EmptyMessage:     "Cannot send empty message",
		LanguageSelector: "Language",
		BloodCenterLink:  "Find a Blood Center",
		SourcesHeader:    "Sources",
		LanguageChanged:  "Language set to English.",
		Processing:       "Processing",

		ConversationCleared: "Conversation cleared.",
	},
	Spanish: {
		AppName:    "Asistente de IA de America's Blood Centers",
		AboutTitle: "Acerca de nosotros",
		About: "Bienvenido al Asistente de IA de America's Blood Centers. Reunimos toda nuestra información y " +
			"servicios de donación de sangre en un solo lugar para que pueda encontrar rápidamente ayuda o información.",
		FAQTitle: "Preguntas Frecuentes",
		FAQs: []string{
			"¿Cuántas personas donan sangre?",
			"¿Soy elegible para donar?",
			"¿Dónde puedo donar sangre?",
			"¿Cómo puedo apoyar el suministro de sangre además de donar?",
			"¿Qué legislación está afectando activamente el suministro de sangre?",
			"¿Cómo puedo escribir a mi miembro del congreso para apoyar el suministro de sangre a través de la legislación?",
		},
		InputPlaceholder: "Pregunta sobre donación de sangre, elegibilidad, o encuentra un centro de sangre...",
		EmptyMessage:     "No se puede enviar mensaje vacío",
		LanguageSelector: "Idioma",
		BloodCenterLink:  "Encontrar un Centro de Sangre",
		SourcesHeader:    "Fuentes",
		LanguageChanged:  "Idioma cambiado a Español.",
		Processing:       "Procesando",

		ConversationCleared: "Conversación borrada.",
	},
}

// TextFor returns the interface text for c, falling back to English.
func TextFor(c Code) Text {
	if t, ok := texts[c]; ok {
		return t
	}
	return texts[Default]
}

// BloodCenterURL is the blood center locator linked from the welcome text.
const BloodCenterURL = "https://americasblood.org/for-donors/find-a-blood-center/"
