package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateBatchID gera um identificador curto para um lote de ingestão,
// usado no relatório e nos logs para correlacionar as linhas de um upload.
func GenerateBatchID() (string, error) {
	return gonanoid.Generate(characters, 10)
}
