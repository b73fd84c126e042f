package assistant

import "strings"

// Intent is the classified purpose of a free-text message.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentStatusCheck  Intent = "booking_status_check"
	IntentCancel       Intent = "cancel_appointment"
	IntentReschedule   Intent = "reschedule"
	IntentStartBooking Intent = "start_booking"
	IntentHours        Intent = "hours_question"
	IntentServices     Intent = "services_question"
	IntentPayment      Intent = "payment_question"
	IntentPromotion    Intent = "promotion_question"
	IntentHuman        Intent = "human_handoff"
	IntentThanks       Intent = "thanks"
	IntentGoodbye      Intent = "goodbye"
	IntentFallback     Intent = "fallback"
)

// intentRule pairs a predicate with the intent it recognizes.
type intentRule struct {
	intent Intent
	match  func(msg string) bool
}

// intentRules is evaluated in order, first match wins. The order is the
// precedence contract: "quando é meu agendamento?" must hit the status check
// before "agendamento" can start a new booking, and "remarcar"/"desmarcar"
// must be consumed before the bare "marcar" of start-booking sees them.
// Matching is case-insensitive and accent-sensitive, so common unaccented
// spellings are listed alongside the accented ones.
var intentRules = []intentRule{
	{IntentGreeting, anyOf(
		word("oi"), word("olá"), word("ola"),
		substr("bom dia", "boa tarde", "boa noite", "tudo bem"),
	)},
	{IntentStatusCheck, substr(
		"meu agendamento", "meus agendamentos", "meu horário", "meu horario",
		"tenho horário", "tenho horario", "status do agendamento",
		"quando é meu", "quando e meu", "consultar agendamento",
	)},
	{IntentCancel, substr("cancelar", "desmarcar")},
	{IntentReschedule, substr(
		"remarcar", "reagendar", "mudar o horário", "mudar o horario",
		"trocar o horário", "trocar o horario",
	)},
	{IntentStartBooking, substr(
		"agendar", "marcar", "agendamento", "quero um horário",
		"quero um horario", "reservar",
	)},
	{IntentHours, substr(
		"horário de funcionamento", "horario de funcionamento",
		"que horas abre", "que horas fecha", "funcionamento",
		"estão abertos", "estao abertos", "abre que horas", "fecha que horas",
	)},
	{IntentServices, substr(
		"serviços", "servicos", "quais serviço", "quais servico",
		"o que vocês fazem", "o que voces fazem",
		"tabela de preço", "tabela de preco",
	)},
	{IntentPayment, substr(
		"pagamento", "pagar", "cartão", "cartao", "pix", "dinheiro", "parcel",
	)},
	{IntentPromotion, substr("promoção", "promocao", "desconto", "oferta", "cupom")},
	{IntentHuman, substr(
		"atendente", "humano", "falar com alguém", "falar com alguem",
		"pessoa de verdade", "falar com uma pessoa",
	)},
	{IntentThanks, anyOf(
		word("valeu"),
		substr("obrigado", "obrigada", "agradeço", "agradeco"),
	)},
	{IntentGoodbye, substr(
		"tchau", "até mais", "ate mais", "até logo", "ate logo", "adeus",
	)},
}

// MatchIntent classifies one free-text message. It is only consulted when no
// booking flow is active. Fallback is a total catch-all, so a reply is
// always produced.
func MatchIntent(message string) Intent {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return IntentFallback
	}
	for _, rule := range intentRules {
		if rule.match(msg) {
			return rule.intent
		}
	}
	return IntentFallback
}

// substr builds a predicate that matches when any token is a substring of
// the message.
func substr(tokens ...string) func(string) bool {
	return func(msg string) bool {
		for _, tok := range tokens {
			if strings.Contains(msg, tok) {
				return true
			}
		}
		return false
	}
}

// word builds a predicate that matches only a standalone word. Short tokens
// like "oi" need this: a plain substring test would fire on "foi" or "dois".
func word(w string) func(string) bool {
	return func(msg string) bool {
		for _, field := range strings.FieldsFunc(msg, isWordSeparator) {
			if field == w {
				return true
			}
		}
		return false
	}
}

func isWordSeparator(r rune) bool {
	switch r {
	case ' ', ',', '.', '!', '?', ';', ':':
		return true
	}
	return false
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(msg string) bool {
		for _, p := range preds {
			if p(msg) {
				return true
			}
		}
		return false
	}
}
