package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// correlationPrefix abre toda referência externa de cobrança PIX
const correlationPrefix = "PIX"

// NewCorrelationID gera a referência externa enviada ao processador na
// criação de uma cobrança PIX: prefixo fixo, sufixo do ID da venda,
// carimbo de tempo e componente aleatório. O processador devolve esse
// valor nas consultas, o que permite casar o webhook com o registro local
// mesmo antes do ID da transação ser conhecido.
func NewCorrelationID(saleID string) string {
	suffix := strings.ReplaceAll(saleID, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%d-%s", correlationPrefix, suffix, time.Now().UnixMilli(), random)
}

// SynthesizePayerEmail retorna o email informado ou, na falta dele,
// sintetiza um a partir do documento ou do nome do pagador. O processador
// exige payer.email em toda cobrança, mas no caixa o email raramente é
// coletado.
func SynthesizePayerEmail(email, document, name string) string {
	if email != "" {
		return email
	}

	var digits strings.Builder
	for _, r := range document {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() > 0 {
		return digits.String() + "@comprador.pdv"
	}

	var parts []string
	for _, word := range strings.Fields(strings.ToLower(name)) {
		var b strings.Builder
		for _, r := range word {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ".") + "@comprador.pdv"
	}

	return "cliente@comprador.pdv"
}
