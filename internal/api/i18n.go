package api

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const msgRequestFailed = "The request could not be completed. Please try again."

func init() {
	message.SetString(language.Spanish, msgRequestFailed, "No se pudo completar la solicitud. Inténtelo de nuevo.")
	message.SetString(language.Indonesian, msgRequestFailed, "Permintaan tidak dapat diproses. Silakan coba lagi.")
	message.SetString(language.Portuguese, msgRequestFailed, "Não foi possível concluir o pedido. Tente novamente.")
}
