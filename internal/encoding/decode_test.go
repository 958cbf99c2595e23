package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/backoffice/internal/encoding"
)

func TestToUTF8_Passthrough(t *testing.T) {
	input := []byte(`{"error":"Saldo inicial não configurado"}`)
	assert.Equal(t, input, encoding.ToUTF8(input))
}

func TestToUTF8_Windows1252(t *testing.T) {
	// "Operação inválida" with ç = 0xE7, ã = 0xE3, á = 0xE1.
	latin1 := []byte{
		'O', 'p', 'e', 'r', 'a', 0xE7, 0xE3, 'o', ' ',
		'i', 'n', 'v', 0xE1, 'l', 'i', 'd', 'a',
	}

	assert.Equal(t, "Operação inválida", string(encoding.ToUTF8(latin1)))
}

func TestToUTF8_StripsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"error":"x"}`)...)
	assert.Equal(t, `{"error":"x"}`, string(encoding.ToUTF8(input)))
}

func TestToUTF8_UTF16LE(t *testing.T) {
	input := []byte{0xFF, 0xFE, 'o', 0, 'k', 0}
	assert.Equal(t, "ok", string(encoding.ToUTF8(input)))
}
