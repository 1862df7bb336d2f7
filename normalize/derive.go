package normalize

import (
	"regexp"
	"strings"

	"github.com/jalad-shrimali/cdr-analyst/carrier"
	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

// deriveFunc fills carrier-specific derived columns. target is the queried
// number, already cleaned; only the duration/SMS plan reads it.
type deriveFunc func(src source, out *columns, target string)

var derivations = map[carrier.Plan]deriveFunc{
	carrier.PlanGeoState:    deriveGeoState,
	carrier.PlanLabelCell:   deriveLabelCell,
	carrier.PlanDurationSMS: deriveDurationSMS,
}

// deriveGeoState: address = location . state, per side.
func deriveGeoState(src source, out *columns, _ string) {
	fillEmpty(out.addrA, zipCol(src.get(carrier.GeoLocationA), src.get(carrier.StateA), joinDot))
	fillEmpty(out.addrB, zipCol(src.get(carrier.GeoLocationB), src.get(carrier.StateB), joinDot))

	out.txLabel = mapCol(src.get(carrier.TransactionType), text)
	out.txType = classifyColumn(out.txLabel)
}

// deriveLabelCell: label = cdr type . transaction code; the A-side cell is
// the leading "-" segment of the A-side address.
func deriveLabelCell(src source, out *columns, _ string) {
	out.txLabel = zipCol(src.get(carrier.CDRType), src.get(carrier.TransactionCode), joinDot)
	out.txType = classifyColumn(out.txLabel)
	fillEmpty(out.cellA, mapCol(out.addrA, firstSegment))
}

var smsToken = regexp.MustCompile(`(?i)sms`)

// deriveDurationSMS: a duration cell mentioning SMS is a text message whose
// remaining content is the time value; anything else is voice. Direction
// follows the queried number: it placed the event when it is the caller.
func deriveDurationSMS(src source, out *columns, target string) {
	out.txLabel = make([]string, out.n)
	out.txType = make([]cdr.TransactionType, out.n)
	for i := range out.n {
		sms := smsToken.MatchString(out.duration[i])
		if sms {
			rest := strings.TrimSpace(smsToken.ReplaceAllString(out.duration[i], ""))
			out.duration[i] = rest
			if out.time[i] == "" {
				out.time[i] = rest
			}
			out.txLabel[i] = "SMS"
		} else {
			out.txLabel[i] = "VOZ"
		}
		out.txType[i] = directed(sms, target, out.caller[i])
	}
}

func directed(sms bool, target, caller string) cdr.TransactionType {
	switch {
	case target == "":
		return cdr.Unknown
	case sms && caller == target:
		return cdr.SMSOut
	case sms:
		return cdr.SMSIn
	case caller == target:
		return cdr.VoiceOut
	default:
		return cdr.VoiceIn
	}
}

/* ──────────── label classification ──────────── */

var (
	wordRE    = regexp.MustCompile(`[A-Z0-9]+`)
	outTokens = map[string]bool{
		"OUT": true, "MO": true, "MOC": true, "SALIENTE": true, "SALIENTES": true,
		"ORIGINADA": true, "ORIGINADO": true, "ENVIADO": true, "ENVIADA": true,
	}
	inTokens = map[string]bool{
		"IN": true, "MT": true, "MTC": true, "ENTRANTE": true, "ENTRANTES": true,
		"TERMINADA": true, "TERMINADO": true, "RECIBIDO": true, "RECIBIDA": true,
	}
	smsTokens = map[string]bool{"SMS": true, "MENSAJE": true, "SMSMO": true, "SMSMT": true}
)

func classifyColumn(labels []string) []cdr.TransactionType {
	out := make([]cdr.TransactionType, len(labels))
	for i, l := range labels {
		out[i] = classifyLabel(l)
	}
	return out
}

// classifyLabel reads a carrier's transaction label ("MOC . VOZ",
// "SMS ENTRANTE", "A_IN") into a TransactionType. Labels that do not state a
// direction are UNKNOWN.
func classifyLabel(label string) cdr.TransactionType {
	var sms, in, out bool
	for _, w := range wordRE.FindAllString(strings.ToUpper(label), -1) {
		switch {
		case smsTokens[w]:
			sms = true
			if w == "SMSMO" {
				out = true
			} else if w == "SMSMT" {
				in = true
			}
		case outTokens[w]:
			out = true
		case inTokens[w]:
			in = true
		}
	}
	if in == out {
		return cdr.Unknown
	}
	switch {
	case sms && out:
		return cdr.SMSOut
	case sms:
		return cdr.SMSIn
	case out:
		return cdr.VoiceOut
	default:
		return cdr.VoiceIn
	}
}
