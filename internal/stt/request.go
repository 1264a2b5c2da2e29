package stt

import (
	"voiceanalysis/internal/audio"
)

// Encoding is the audio encoding hint sent to a recognition backend.
type Encoding string

const (
	EncodingWebMOpus Encoding = "WEBM_OPUS"
	EncodingMP3      Encoding = "MP3"
	EncodingLinear16 Encoding = "LINEAR16"
)

// Request is a single recognition call. SampleRateHertz is nil when the
// rate is unknown or self-described by the container.
type Request struct {
	Audio           []byte
	LanguageCode    string
	Encoding        Encoding
	Format          audio.Format
	SampleRateHertz *int
}

var languageCodes = map[string]string{
	"en": "en-US",
	"es": "es-ES",
	"fr": "fr-FR",
	"de": "de-DE",
	"it": "it-IT",
	"pt": "pt-BR",
	"ja": "ja-JP",
	"ko": "ko-KR",
	"zh": "zh-CN",
}

// NewRequest builds a Request from raw audio, a short language code, the
// sniffed format and the native sample rate (0 if unknown).
func NewRequest(data []byte, language string, format audio.Format, sampleRate int) *Request {
	return &Request{
		Audio:           data,
		LanguageCode:    LanguageCode(language),
		Encoding:        EncodingFor(format),
		Format:          format,
		SampleRateHertz: SampleRateHint(format, sampleRate),
	}
}

// LanguageCode expands a short language code to a BCP-47 locale.
// Unknown codes pass through unchanged.
func LanguageCode(language string) string {
	if code, ok := languageCodes[language]; ok {
		return code
	}
	return language
}

// EncodingFor maps a sniffed format to its encoding hint. Unknown input is
// assumed to be a browser recording.
func EncodingFor(format audio.Format) Encoding {
	switch format {
	case audio.FormatMP3:
		return EncodingMP3
	case audio.FormatWAV:
		return EncodingLinear16
	default:
		return EncodingWebMOpus
	}
}

// SampleRateHint returns the rate to declare, or nil when it is unknown or
// the format is webm.
func SampleRateHint(format audio.Format, sampleRate int) *int {
	if sampleRate <= 0 || format == audio.FormatWebM {
		return nil
	}
	rate := sampleRate
	return &rate
}

// Language returns the two-letter prefix of the request locale.
func (r *Request) Language() string {
	if len(r.LanguageCode) >= 2 {
		return r.LanguageCode[:2]
	}
	return r.LanguageCode
}
