package items

import "time"

// Kind es el tipo canónico de un item.
// Ojo: el kind guardado en DB es un hint (se setea al subir el archivo);
// a la hora de mostrar, Classify() con mime/extensión manda.
type Kind string

const (
	KindText  Kind = "text"
	KindPhoto Kind = "photo"
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
	KindFile  Kind = "file"
)

// Item es una unidad de contenido escrita/subida por el paciente.
// Invariante: un item de texto nunca lleva referencia a storage,
// y un item binario nunca lleva text_content.
type Item struct {
	ID        string
	PatientID string

	Kind Kind

	// Payload texto
	Title       string // vacío => se persiste NULL
	TextContent string

	// Payload binario (metadata producida por el upload externo)
	StorageBucket string
	StoragePath   string
	MimeType      string

	CreatedAt time.Time
}

// HasStorageObject indica si el item referencia un objeto binario.
func (i Item) HasStorageObject() bool {
	return i.StorageBucket != "" && i.StoragePath != ""
}

// EffectiveKind resuelve el tipo confiable para presentación:
// mime/extensión primero, kind guardado como fallback.
func (i Item) EffectiveKind() Kind {
	if i.Kind == KindText {
		return KindText
	}
	return Classify(i.MimeType, i.StoragePath, i.Kind)
}
