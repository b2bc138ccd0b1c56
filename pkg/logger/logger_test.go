package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestFormatLinePairs(t *testing.T) {
	got := formatLine("Erro ao salvar pagamento", "error", "timeout", "sale_id", "v1")
	want := "Erro ao salvar pagamento error=timeout sale_id=v1"
	if got != want {
		t.Errorf("formatLine = %q, esperado %q", got, want)
	}
}

func TestFormatLineWithoutPairs(t *testing.T) {
	if got := formatLine("apenas mensagem"); got != "apenas mensagem" {
		t.Errorf("formatLine = %q", got)
	}
}

func TestFormatLineOddPair(t *testing.T) {
	got := formatLine("mensagem", "chave")
	if got != "mensagem chave=" {
		t.Errorf("formatLine = %q", got)
	}
}

func TestInfoWritesFormattedPairs(t *testing.T) {
	var buf bytes.Buffer
	l := &SimpleLogger{
		infoLogger:  log.New(&buf, "INFO: ", 0),
		errorLogger: log.New(&buf, "ERROR: ", 0),
		debugLogger: log.New(&buf, "DEBUG: ", 0),
		warnLogger:  log.New(&buf, "WARN: ", 0),
	}

	l.Info("Pagamento confirmado", "payment_id", "p1", "transaction_id", "tx1")

	out := buf.String()
	if !strings.Contains(out, "Pagamento confirmado payment_id=p1 transaction_id=tx1") {
		t.Errorf("saída inesperada: %q", out)
	}
	if strings.Contains(out, "%!") {
		t.Errorf("saída contém erro de formatação: %q", out)
	}
}
