package assistant

import (
	"fmt"
	"strings"

	"fiesta/fiesta/services/llm"
	"fiesta/fiesta/sources/psql/models"
)

const (
	ModeAuto    = "auto"
	ModeCompute = "compute"
	ModeAgent   = "agent"
)

// ErrorReply is persisted as the assistant message content when the text
// generation call fails, so the conversation log stays contiguous.
const ErrorReply = "Beklager, der opstod en fejl. Prøv venligst igen."

// WelcomeMessage greets a user whose first session is being created.
const WelcomeMessage = `🔥 **Velkommen til FiestaAI!**

Hej Jonas! Jeg er din digitale operations-assistent for Foodtruck Fiesta ApS.

**Jeg kan hjælpe dig med:**
• 📧 Kundeservice & email-håndtering
• 📅 Event-booking & planlægning
• 🍽️ Menukort & prisberegning
• 💰 Bogføring & fakturaer
• 📱 Sociale medier & marketing
• ✅ Compliance & fødevaresikkerhed

**Hvad kan jeg hjælpe dig med i dag?**

*Tip: Prøv at spørge om "events denne måned" eller "lav et tilbud til 100 personer"* 🌯

**Husk:** Alle vores samtaler gemmes automatisk i historikken, så jeg kan huske vores tidligere diskussioner og give bedre hjælp! 🧠`

// NewSessionMessage opens every explicitly started session.
const NewSessionMessage = `🔥 **Ny samtale startet!**

Hvad kan jeg hjælpe dig med nu? Din tidligere samtale er gemt i historikken. 🌯`

var calendarTriggers = []string{
	"event",
	"kalender",
	"booking",
	"kommende",
	"denne måned",
	"i dag",
	"i morgen",
}

// IsCalendarQuery reports whether the user message should pull calendar data
// into the prompt.
func IsCalendarQuery(content string) bool {
	lower := strings.ToLower(content)
	for _, trigger := range calendarTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// ModelForMode picks the generation model: the heavier modes get the larger
// model.
func ModelForMode(mode string) string {
	if mode == ModeCompute || mode == ModeAgent {
		return "gpt-4.1"
	}
	return "gpt-4.1-mini"
}

func maxStepsForMode(mode string) int {
	switch mode {
	case ModeAgent:
		return 15
	case ModeCompute:
		return 10
	default:
		return 5
	}
}

func searchEnabled(mode string, advanced bool) bool {
	return advanced || mode == ModeCompute
}

func modeInstructions(mode string) string {
	switch mode {
	case ModeCompute:
		return `
COMPUTE MODE - Dybdegående analyse:
- Udfør detaljerede beregninger og analyser
- Brug web search til at få aktuelle data og priser
- Lav omfattende markedsanalyser og prognoser
- Inkluder konkrete tal, statistikker og sammenligninger
- Vis arbejdsprocessen og begrundelser for konklusioner
- Ved kalender-forespørgsler: Analyser event-mønstre og foreslå optimeringer`
	case ModeAgent:
		return `
AGENT MODE - Selvstændig opgaveløsning:
- Opdel komplekse opgaver i mindre delopgaver
- Udfør multi-step reasoning og planlægning
- Foreslå og implementer komplette løsninger
- Opret automatisk follow-up opgaver og påmindelser
- Tænk strategisk og langsigtet om forretningsudvikling
- Ved kalender-forespørgsler: Foreslå automatiske påmindelser og opfølgning`
	default:
		return `
AUTO MODE - Intelligent opgave-routing:
- Giv hurtige, præcise svar på almindelige spørgsmål
- Automatisk kategoriser opgaver (kundeservice, marketing, økonomi, etc.)
- Foreslå konkrete næste skridt
- Hold svar under 200 ord medmindre kompleks analyse er nødvendig
- Ved kalender-forespørgsler: Vis relevante events fra Google Calendar`
	}
}

// RecallBlock renders the cross-session recall context: the user's messages
// from the trailing week, newest first, first 10 used, each truncated to 100
// characters. Empty input yields an empty block (omitted, never an error
// placeholder).
func RecallBlock(recent []models.ChatMessage) string {
	if len(recent) == 0 {
		return ""
	}
	limit := len(recent)
	if limit > 10 {
		limit = 10
	}
	lines := make([]string, 0, limit)
	for _, msg := range recent[:limit] {
		lines = append(lines, fmt.Sprintf("%s: %s...", msg.Role, truncateRunes(msg.Content, 100)))
	}
	return fmt.Sprintf("\n\nKONTEKST FRA TIDLIGERE SAMTALER (sidste 7 dage):\n%s\n\nBrug denne kontekst til at give mere personlige og relevante svar baseret på vores tidligere diskussioner.",
		strings.Join(lines, "\n"))
}

// CalendarDataBlock embeds fetched events into the prompt.
func CalendarDataBlock(formatted string) string {
	return fmt.Sprintf("\n\nGOOGLE CALENDAR DATA (ftfiestaa@gmail.com):\n%s\n\nBrug denne data til at besvare brugerens spørgsmål om events og kalender.", formatted)
}

// CalendarEmptyBlock is used when the lookup succeeded but found nothing.
func CalendarEmptyBlock() string {
	return "\n\nGOOGLE CALENDAR: Ingen events fundet i de næste 30 dage eller kalender ikke forbundet."
}

// CalendarErrorBlock makes the degradation visible to the assistant so it
// can point the user at support instead of silently knowing nothing.
func CalendarErrorBlock(errMsg string) string {
	return fmt.Sprintf("\n\nGOOGLE CALENDAR FEJL: %s\n\nForeslå brugeren at kontakte support for at få hjælp til Google Calendar integration.", errMsg)
}

// ContextInput carries everything one assistant turn needs. It is built
// fresh per request and threaded through explicitly; there is no ambient
// conversation state.
type ContextInput struct {
	Mode      string
	Advanced  bool
	UserInput string
	TaskType  string

	// Recent is the active session's history, ascending; the last 10 turns
	// anchor immediate continuity.
	Recent []models.ChatMessage

	// RecallBlock and CalendarBlock are pre-rendered ("" = omitted). Each is
	// individually best-effort; a failure upstream never aborts the others.
	RecallBlock   string
	CalendarBlock string
}

// BuildContext assembles the prompt bundle for one assistant turn.
func BuildContext(in ContextInput) llm.ChatRequest {
	messages := []llm.Message{{Role: "system", Content: systemPrompt(in)}}

	recent := in.Recent
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for _, msg := range recent {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	messages = append(messages, llm.Message{Role: "user", Content: in.UserInput})

	return llm.ChatRequest{
		Model:    ModelForMode(in.Mode),
		Messages: messages,
		Options: &llm.Options{
			Search:   searchEnabled(in.Mode, in.Advanced),
			MaxSteps: maxStepsForMode(in.Mode),
		},
	}
}

func systemPrompt(in ContextInput) string {
	taskType := in.TaskType
	if taskType == "" {
		taskType = "generel"
	}
	research := "DEAKTIVERET"
	if in.Advanced {
		research = "AKTIVERET - Brug web search til aktuelle data"
	}

	return fmt.Sprintf(`Du er FiestaAI, den digitale operations-assistent for Foodtruck Fiesta ApS (Jonas Abde).

AKTUEL MODE: %s
%s

AVANCERET FORSKNING: %s

VIGTIGE DETALJER:
- Brand: Foodtruck Fiesta ApS (CVR 44371901)
- Ejer: Jonas Abde (tlf +45 22 65 02 26, mail ftfiestaa@gmail.com)
- 2 vogne: Shawarma Wagon (sort/flamme) & Grill Wagon (rød/orange)
- Specialitet: Mellemøstlig street food til events 50-5000 gæster

MENU HIGHLIGHTS:
Shawarma Wagon: Flankesteak Shawarma rulle, Falafel rulle (vegan), Shawarma Box, Sambosa
Grill Wagon: Kebabspyd rulle, Kyllingespyd rulle, Grill Box, Grillet Kyllingelår, Libanesisk Mini-Pizza

PRISER: Fra 125 kr/kuvert ekskl. moms (min. 4000 kr)%s

HUKOMMELSE & KONTEKST:
Du har adgang til alle tidligere samtaler og kan referere til dem. Brug denne viden til at:
- Huske tidligere diskussioner og beslutninger
- Følge op på tidligere opgaver og anbefalinger
- Tilpasse svar baseret på Jonas' præferencer og mønstre
- Undgå at gentage information der allerede er diskuteret%s

SVAR ALTID MED:
1. **Opgavetype** – %s
2. **Anbefalet handling** – konkret næste skridt
3. **Udført output** – hvad du leverer nu
4. **Videre proces** – hvad der skal ske bagefter
5. **Vurdering** – risiko, forbedringer, alternativer

Vær venlig, handlekraftig og brug max 250 ord. Brug emojis selektivt: 🔥🌯🍗🎉📅💸

Hvis det er en kundeforespørgsel, lav et konkret svar-udkast. Hvis det er marketing, foreslå konkret indhold. Hvis det er økonomi, giv konkrete tal og anbefalinger.

VIGTIG: Hvis brugeren spørger om tidligere samtaler eller beder om at opsummere, kan du referere til vores samtalehistorik og give konkrete eksempler fra tidligere diskussioner.

KALENDER INTEGRATION: Når brugeren spørger om events, kalender eller bookings, brug Google Calendar data ovenfor til at give præcise svar om kommende events fra ftfiestaa@gmail.com kalenderen.`,
		strings.ToUpper(in.Mode),
		modeInstructions(in.Mode),
		research,
		in.CalendarBlock,
		in.RecallBlock,
		taskType,
	)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
