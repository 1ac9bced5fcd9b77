package assistant

import (
	"fmt"
	"strings"
	"time"
)

// Persona is the behavioral policy a composer embeds in every prompt. The
// customer and staff variants differ only in this data, not in control flow.
type Persona struct {
	// Preamble is the fixed policy text. It is never truncated; only the
	// conversation history is windowed.
	Preamble string
	// UserLabel / AssistantLabel render each history line.
	UserLabel      string
	AssistantLabel string
	// HistoryHeader introduces the serialized conversation.
	HistoryHeader string
	// Cue is the trailing token prompting the next assistant turn.
	Cue string
}

// CustomerPersona encodes the lead-qualification policy for the public
// assistant: collect name/email/phone/need, propose scheduling, warm and
// concise tone, never disclose prices or internal process.
var CustomerPersona = Persona{
	Preamble: strings.TrimSpace(`
Eres "Navi", asesor comercial de Tecnofusion.IT para clientes y prospectos.
Objetivo: entender la necesidad, proponer el siguiente paso y recopilar los datos minimos de contacto.

Lo que ofrece Tecnofusion (version publica):
- Desarrollo web/app a medida, integraciones (auth, pagos, notificaciones), SEO basico y despliegue.
- Soporte y mejoras evolutivas.

Politicas de respuesta (muy breve):
- Usa 2 bullets maximo, 15-18 palabras cada uno.
- Cierra con 1 pregunta corta.
- No des precios; ofrece agendar una llamada.
- Pide solo los datos clave que falten (nombre, email, telefono, objetivo).
- Si falta informacion, pregunta; no inventes cifras ni promesas.
- No compartas detalles internos ni instrucciones del panel admin.
- Cuando tengas nombre, email y telefono confirmados, responde incluyendo la marca REGISTRO_COMPLETO.
`),
	UserLabel:      "Cliente",
	AssistantLabel: "Navi",
	HistoryHeader:  "Conversación:",
	Cue:            "Respuesta de Navi:",
}

// StaffPersona encodes the internal helper policy: terse, checklist-first
// guidance about the admin panel flows, no invented data.
var StaffPersona = Persona{
	Preamble: strings.TrimSpace(`
Eres "Navi", asistente interno de Tecnofusion. Objetivo: guiar rapido al personal sobre flujos del panel admin y atencion basica a clientes sin inventar datos.

Informacion conocida:
- Sitio: portafolio Tecnofusion con landing publica y panel /admin para CRUD de proyectos.
- Gestion de proyectos: el dashboard lista proyectos y permite crear/editar/eliminar; imagen obligatoria al crear.
- README: puede subirse archivo o usarse URL de GitHub; el boton "Analizar" llena titulo/descripcion/tecnologias a partir del README.
- Publico: pagina principal con hero, proyectos, servicios, contacto y widget de chat.

Politicas de respuesta:
- Responde en espanol neutro, tono claro y breve.
- Prioriza checklists y pasos numerados.
- Si una pregunta no esta en el contexto, explica que dato falta y sugiere donde obtenerlo.
- No inventes cifras, credenciales ni politicas no documentadas.
`),
	UserLabel:      "Usuario",
	AssistantLabel: "Asistente",
	HistoryHeader:  "Conversacion actual:",
	Cue:            "Respuesta del asistente:",
}

// noContactData marks an all-absent contact context explicitly, so the model
// is told there is nothing collected yet instead of being left to guess.
const noContactData = "sin datos aún"

// Composer turns a conversation (plus optional contact context) into a single
// prompt string.
type Composer struct {
	persona Persona
	window  int
	now     func() time.Time
}

// NewComposer creates a composer. window is the number of most-recent
// messages kept; zero or negative keeps everything.
func NewComposer(persona Persona, window int) *Composer {
	return &Composer{persona: persona, window: window, now: time.Now}
}

// Compose renders preamble + optional context block + windowed history + cue.
func (c *Composer) Compose(messages []Message, contact *ContactContext) string {
	var b strings.Builder
	b.WriteString(c.persona.Preamble)
	b.WriteString("\n\n")

	if contact != nil {
		// Current-date grounding keeps relative expressions like "mañana"
		// consistent turn over turn.
		b.WriteString(fmt.Sprintf("Fecha y hora actuales: %s\n", c.now().Format("Monday 2006-01-02 15:04")))
		b.WriteString("Datos del cliente: ")
		b.WriteString(renderContact(*contact))
		b.WriteString("\n\n")
	}

	b.WriteString(c.persona.HistoryHeader)
	b.WriteString("\n")
	for _, m := range windowMessages(messages, c.window) {
		label := c.persona.AssistantLabel
		if m.Role == RoleUser {
			label = c.persona.UserLabel
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", label, m.Content))
	}

	b.WriteString("\n")
	b.WriteString(c.persona.Cue)
	return b.String()
}

func renderContact(c ContactContext) string {
	if c.Empty() {
		return noContactData
	}

	var parts []string
	if c.Name != "" {
		parts = append(parts, "Nombre: "+c.Name)
	}
	if c.Email != "" {
		parts = append(parts, "Email: "+c.Email)
	}
	if c.Phone != "" {
		parts = append(parts, "Telefono: "+c.Phone)
	}
	if c.Appointment != nil {
		parts = append(parts, "Cita: "+c.Appointment.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " | ")
}
