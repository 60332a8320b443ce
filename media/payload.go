package media

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/lorekeep/lorekeep/core"
)

// Protocol prefixes recognized inside document content. The legacy form
// predates audio support but still resolves to the same identifier
// namespace; new references are always written with CurrentProtocol.
const (
	CurrentProtocol = "local-media://"
	LegacyProtocol  = "local-image://"
)

// RecognizedProtocols lists every prefix a reference parser must accept.
var RecognizedProtocols = []string{CurrentProtocol, LegacyProtocol}

// AllowedUploadTypes are the top-level content-type categories accepted
// on upload. Video references can appear in documents, but video upload
// is not supported by the local provider.
var AllowedUploadTypes = []core.MediaType{core.MediaTypeImage, core.MediaTypeAudio}

// extensionMIME is the single source of truth mapping a stored file
// extension to its canonical MIME type. The upload-time MIME-to-extension
// lookup is derived from this table (plus aliases below), so the two
// inference paths cannot drift apart.
var extensionMIME = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"flac": "audio/flac",
}

// mimeAliases maps additional inbound MIME spellings to an extension in
// extensionMIME.
var mimeAliases = map[string]string{
	"image/jpg":   "jpg",
	"audio/mp3":   "mp3",
	"audio/x-wav": "wav",
	"audio/m4a":   "m4a",
	"audio/x-m4a": "m4a",
}

// mimeExtension is the inverse lookup, built once from extensionMIME.
var mimeExtension = func() map[string]string {
	m := make(map[string]string, len(extensionMIME)+len(mimeAliases))
	for ext, mime := range extensionMIME {
		// jpeg/jpg both map to image/jpeg; prefer the short form.
		if ext == "jpeg" {
			continue
		}
		m[mime] = ext
	}
	for mime, ext := range mimeAliases {
		m[mime] = ext
	}
	return m
}()

const fallbackExtension = "bin"

// Payload is a decoded self-describing media blob.
type Payload struct {
	MIME string
	Data []byte
}

const (
	dataScheme   = "data:"
	base64Marker = ";base64,"
)

// ParsePayload decodes the data:{mime};base64,{payload} wire form.
// Anything not matching that exact shape (scheme, separator, non-empty
// MIME and payload, valid base64) is rejected with ErrMalformedPayload.
func ParsePayload(s string) (*Payload, error) {
	if !strings.HasPrefix(s, dataScheme) {
		return nil, fmt.Errorf("%w: missing data: scheme", ErrMalformedPayload)
	}
	rest := s[len(dataScheme):]

	idx := strings.Index(rest, base64Marker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: missing base64 separator", ErrMalformedPayload)
	}
	mime := rest[:idx]
	encoded := rest[idx+len(base64Marker):]

	if mime == "" || !strings.Contains(mime, "/") {
		return nil, fmt.Errorf("%w: invalid content type %q", ErrMalformedPayload, mime)
	}
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %w", ErrMalformedPayload, err)
	}

	return &Payload{MIME: mime, Data: data}, nil
}

// Encode renders the payload back into its wire form.
func (p *Payload) Encode() string {
	return dataScheme + p.MIME + base64Marker + base64.StdEncoding.EncodeToString(p.Data)
}

// Type returns the top-level category of the payload's content type.
func (p *Payload) Type() core.MediaType {
	return TypeOfMIME(p.MIME)
}

// TypeOfMIME returns the top-level category of a MIME string.
func TypeOfMIME(mime string) core.MediaType {
	category, _, _ := strings.Cut(normalizeMIME(mime), "/")
	return core.MediaType(category)
}

// TypeAllowed reports whether a category is accepted on upload.
func TypeAllowed(t core.MediaType) bool {
	for _, allowed := range AllowedUploadTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// normalizeMIME lowercases a content type and strips parameters such as
// ";codecs=opus".
func normalizeMIME(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// ExtensionForMIME infers the stored file extension for a content type.
// Unrecognized subtypes fall back to the subtype token itself, or "bin"
// when no usable token can be extracted.
func ExtensionForMIME(mime string) string {
	normalized := normalizeMIME(mime)
	if ext, ok := mimeExtension[normalized]; ok {
		return ext
	}

	_, subtype, ok := strings.Cut(normalized, "/")
	if !ok {
		return fallbackExtension
	}
	subtype = strings.TrimPrefix(subtype, "x-")
	token := leadingToken(subtype)
	if token == "" {
		return fallbackExtension
	}
	return token
}

// leadingToken returns the leading run of lowercase alphanumerics.
func leadingToken(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return s[:i]
		}
	}
	return s
}

// MIMEForExtension is the inverse inference used on read, since the
// upload-time content type is not persisted separately.
func MIMEForExtension(ext string) string {
	if mime, ok := extensionMIME[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// ExtensionOf returns the lowercased extension suffix of an identifier,
// or "" when it has none.
func ExtensionOf(id string) string {
	idx := strings.LastIndexByte(id, '.')
	if idx < 0 || idx == len(id)-1 {
		return ""
	}
	return strings.ToLower(id[idx+1:])
}

// KnownExtension reports whether an identifier carries an extension from
// the media allow-list. Backends use it to exclude stray non-media
// entries from enumeration.
func KnownExtension(id string) bool {
	ext := ExtensionOf(id)
	if ext == "" {
		return false
	}
	_, ok := extensionMIME[ext]
	return ok
}

const (
	randomSuffixLen = 6
	base36Chars     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewIdentifier generates a media identifier of the form
// {owner}_{unixMillis}_{random}.{ext}. The timestamp plus random suffix
// gives practical uniqueness without a coordination step.
func NewIdentifier(ownerID, mime string) string {
	suffix := make([]byte, randomSuffixLen)
	for i := range suffix {
		suffix[i] = base36Chars[rand.Intn(len(base36Chars))]
	}
	return fmt.Sprintf("%s_%d_%s.%s", ownerID, time.Now().UnixMilli(), suffix, ExtensionForMIME(mime))
}

// PrepareUpload validates and decodes an inbound payload and assigns it
// a fresh identifier. Both backends funnel SaveMedia through this so
// upload semantics cannot diverge between them.
func PrepareUpload(ownerID, payload string) (string, []byte, error) {
	p, err := ParsePayload(payload)
	if err != nil {
		return "", nil, err
	}
	if !TypeAllowed(p.Type()) {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, p.MIME)
	}
	return NewIdentifier(ownerID, p.MIME), p.Data, nil
}

// StripRef removes whichever recognized protocol prefix is present,
// returning the bare identifier.
func StripRef(ref string) string {
	for _, proto := range RecognizedProtocols {
		if strings.HasPrefix(ref, proto) {
			return ref[len(proto):]
		}
	}
	return ref
}

// CanonicalRef renders an identifier (or a reference under either
// prefix) in the current protocol form.
func CanonicalRef(id string) string {
	return CurrentProtocol + StripRef(id)
}
