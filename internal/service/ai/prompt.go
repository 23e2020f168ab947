package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cistcor/cistbot/backend/internal/model/chat"
)

// Persona is the fixed instruction block describing CistBot's voice.
const Persona = `Eres CistBot, el asistente virtual de Cistcor Networks. Eres amable, servicial y entusiasta por ayudar a los negocios.

INSTRUCCIONES DE PERSONALIDAD:
1. Sé amigable, cálido y entusiasta 😊
2. Usa emojis moderadamente para dar calidez
3. Formatea respuestas con saltos de línea y viñetas
4. Muestra empatía e interés genuino en ayudar
5. Mantén un tono alegre pero profesional

FORMATO DE RESPUESTAS:
- Usa saltos de línea entre ideas
- Emplea viñetas (•) para listas
- Sé claro pero no frío o robótico
- Responde específicamente a lo preguntado`

// DefaultCompanyProfile is used when no external profile file is
// configured or the configured one cannot be read.
const DefaultCompanyProfile = `INFORMACIÓN DE LA EMPRESA:
Cistcor es un sistema de gestión de negocios y facturación electrónica que simplifica la administración de tu negocio y hace más fácil tu trabajo.

BENEFICIOS PRINCIPALES:
• Emitir comprobantes en segundos ⚡
• Controlar inventario al instante 📦
• Reportes en tiempo real de ventas y compras 📊
• Cumplimiento fácil con SUNAT ✅
• Acceso 24/7 desde cualquier dispositivo 🌐

INFORMACIÓN TÉCNICA (solo si es relevante):
• Requisitos: RUC activo, Internet, dispositivo (PC/tablet) 📋
• Plataforma: 100% en la nube ☁️

PLANES DE CISTCOR (precios con IGV incluido):
• 🚀 EMPRENDEDOR: S/59 mensual
  - 300 comprobantes/mes
  - Ideal para pequeños negocios

• 📈 ESTÁNDAR: S/97 mensual (MÁS POPULAR)
  - 1500 comprobantes/mes
  - Perfecto para negocios en crecimiento

• 🏆 PROFESIONAL: S/177 mensual
  - 4000 comprobantes/mes
  - Para empresas establecidas

Todos incluyen prueba gratis y soporte.`

// maxSystemChars bounds the assembled system block so a pathological
// profile or history cannot inflate the upstream payload.
const maxSystemChars = 8000

// PromptBuilder assembles the outbound message sequence from static
// context and a trailing slice of conversation history. It performs no
// I/O and never mutates the history it is given.
type PromptBuilder struct {
	persona string
	profile string
}

// NewPromptBuilder creates a builder with the given persona and company
// profile text. Empty profile falls back to the built-in default.
func NewPromptBuilder(persona, profile string) *PromptBuilder {
	if strings.TrimSpace(profile) == "" {
		profile = DefaultCompanyProfile
	}
	return &PromptBuilder{persona: persona, profile: profile}
}

// Build returns the message sequence for the upstream call: a system
// message carrying persona, company profile and the rendered recent
// history, followed by the history turns themselves and the new user
// message.
func (b *PromptBuilder) Build(history []chat.Message, userMessage string) []chat.Message {
	var sb strings.Builder
	sb.WriteString(b.persona)
	sb.WriteString("\n\n")
	sb.WriteString(b.profile)
	if len(history) > 0 {
		sb.WriteString("\n\nHistorial reciente:\n")
		sb.WriteString(renderHistory(history))
	}

	system := sb.String()
	if len(system) > maxSystemChars {
		cut := maxSystemChars
		for cut > 0 && !utf8.RuneStart(system[cut]) {
			cut--
		}
		system = system[:cut]
	}

	messages := make([]chat.Message, 0, len(history)+2)
	messages = append(messages, chat.Message{Role: chat.RoleSystem, Content: system})
	for _, m := range history {
		messages = append(messages, chat.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, chat.Message{Role: chat.RoleUser, Content: userMessage})
	return messages
}

func renderHistory(history []chat.Message) string {
	lines := make([]string, len(history))
	for i, m := range history {
		lines[i] = fmt.Sprintf("%s: %s", m.Role, m.Content)
	}
	return strings.Join(lines, "\n")
}
