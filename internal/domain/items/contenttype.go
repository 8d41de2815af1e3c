package items

import "strings"

var (
	videoExts = map[string]struct{}{"mp4": {}, "mov": {}, "m4v": {}, "webm": {}}
	audioExts = map[string]struct{}{"mp3": {}, "m4a": {}, "aac": {}, "wav": {}, "ogg": {}}
	photoExts = map[string]struct{}{"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {}, "heic": {}}
)

// Classify infiere el tipo de contenido a mostrar.
// Orden: prefijo MIME > extensión del path > fallback guardado > file.
// Pura y total: nunca falla, siempre devuelve un Kind válido.
func Classify(mime, path string, fallback Kind) Kind {
	m := strings.ToLower(strings.TrimSpace(mime))

	switch {
	case strings.HasPrefix(m, "video/"):
		return KindVideo
	case strings.HasPrefix(m, "audio/"):
		return KindAudio
	case strings.HasPrefix(m, "image/"):
		return KindPhoto
	}

	ext := pathExt(path)
	if _, ok := videoExts[ext]; ok {
		return KindVideo
	}
	if _, ok := audioExts[ext]; ok {
		return KindAudio
	}
	if _, ok := photoExts[ext]; ok {
		return KindPhoto
	}

	switch fallback {
	case KindText, KindPhoto, KindAudio, KindVideo, KindFile:
		return fallback
	}

	return KindFile
}

// pathExt saca la extensión en minúsculas, ignorando query suffix.
func pathExt(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	clean := path
	if i := strings.IndexByte(clean, '?'); i >= 0 {
		clean = clean[:i]
	}
	i := strings.LastIndexByte(clean, '.')
	if i < 0 || i == len(clean)-1 {
		return ""
	}
	return strings.ToLower(clean[i+1:])
}
