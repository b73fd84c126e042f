package assistant

import (
	"fmt"
	"strings"
	"time"
)

// Canned and templated replies, pt-BR. Every branch of the dialogue resolves
// to one of these; the visitor never sees a raw error.

const (
	replyGreeting = "Olá! 😊 Sou a assistente virtual do estúdio. Posso ajudar com informações sobre serviços, horários, pagamentos ou agendar um horário pra você. É só me dizer!"

	replyHours = "Funcionamos de terça a sábado, das 9h às 18h. Quer aproveitar e agendar um horário?"

	replyPayment = "Aceitamos Pix, cartão de crédito e débito (em até 3x sem juros) e dinheiro. Posso ajudar com mais alguma coisa?"

	replyPromotion = "Temos promoções toda semana! Hoje: 10% de desconto na primeira visita e pacotes com preço especial. Quer agendar e aproveitar?"

	replyHuman = "Claro! Vou avisar nossa equipe e alguém entra em contato com você em instantes. Enquanto isso, posso adiantar alguma informação?"

	replyThanks = "De nada! 💜 Qualquer coisa é só chamar."

	replyGoodbye = "Até logo! Esperamos você no estúdio. 💜"

	replyFallback = "Desculpe, não entendi muito bem. 🙈 Posso ajudar com serviços, horários de funcionamento, formas de pagamento ou agendar um horário. O que você precisa?"

	replyCancelInfo = "Para cancelar ou desmarcar um horário, é só falar com nossa equipe pelo WhatsApp ou telefone. Quer que eu chame alguém pra te ajudar?"

	replyRescheduleInfo = "Para remarcar, o caminho mais rápido é falar com nossa equipe pelo WhatsApp. Se preferir, posso agendar um novo horário agora mesmo. Quer?"

	replyAskService = "Vamos agendar! 🎉 Qual serviço você gostaria? Temos: %s."

	replyServiceNotRecognized = "Hmm, não encontrei esse serviço. 🙈 Temos: %s. Qual deles você quer?"

	replyAskDateTime = "Ótima escolha: %s! Para qual dia e horário? Pode dizer \"hoje\", \"amanhã\" ou uma data como 25/12, com o horário (ex: 14h)."

	replyInvalidDateTime = "Não consegui entender a data ou o horário, ou esse horário não está disponível. 😕 Pode tentar de novo? Ex: \"amanhã às 14h\" ou \"25/12 10:00\"."

	replyConfirm = "Perfeito! Confirmando: %s no dia %s às %s. Posso confirmar? (sim/não)"

	replyConfirmRetry = "Só preciso de um \"sim\" para confirmar ou \"não\" para cancelar. 😊"

	replyBookingConfirmed = "Prontinho! ✅ Seu horário de %s está confirmado para %s às %s. Te esperamos!"

	replyBookingDeclined = "Sem problemas, agendamento cancelado. Quando quiser marcar é só me chamar! 😊"

	replyNoUpcoming = "Não encontrei nenhum agendamento futuro no seu nome por aqui. Quer marcar um horário?"
)

// servicesReply lists the catalog for the services-question intent.
func servicesReply(names []string) string {
	return fmt.Sprintf(
		"Nossos serviços: %s. Quer agendar algum deles?",
		strings.Join(names, ", "),
	)
}

// upcomingReply reports the visitor's nearest upcoming appointment.
func upcomingReply(service string, startsAt time.Time) string {
	return fmt.Sprintf(
		"Seu próximo horário: %s no dia %s às %s. Até lá! 😊",
		service, FormatDate(startsAt), startsAt.Format("15:04"),
	)
}

// tipMessages rotate through the proactive tip timer while the visitor is
// quiet. Kept short; one is injected per idle interval.
var tipMessages = []string{
	"💡 Dica: agendando pelo chat você garante seu horário na hora, sem espera!",
	"✨ Sabia que temos 10% de desconto na primeira visita? É só pedir na recepção.",
	"📅 Nossos horários de sábado costumam lotar rápido. Quer garantir o seu?",
	"💜 Tem dúvida entre dois serviços? Me pergunta que eu te ajudo a escolher!",
}
