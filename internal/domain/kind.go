package domain

// Kind identifies one record family and its backing collection.
type Kind string

const (
	KindLegislation        Kind = "legislation"
	KindLegislationSection Kind = "legislation_section"
	KindAmendment          Kind = "amendment"
	KindExplanatoryNote    Kind = "explanatory_note"
	KindCaselaw            Kind = "caselaw"
	KindCaselawSection     Kind = "caselaw_section"
	KindCaselawSummary     Kind = "caselaw_summary"
	KindEmbeddingCache     Kind = "embedding_cache"
)

// AllKinds lists every record kind that owns a collection, leaves first.
func AllKinds() []Kind {
	return []Kind{
		KindLegislation,
		KindLegislationSection,
		KindAmendment,
		KindExplanatoryNote,
		KindCaselaw,
		KindCaselawSection,
		KindCaselawSummary,
		KindEmbeddingCache,
	}
}

// Collection returns the vector store collection name for the kind.
func (k Kind) Collection() string {
	return string(k)
}

// Quantized reports whether the kind's collection uses INT8 scalar
// quantisation. Case law bodies are by far the largest collections.
func (k Kind) Quantized() bool {
	return k == KindCaselaw || k == KindCaselawSection
}

// Record is the contract every stored record satisfies.
type Record interface {
	// URI is the canonical identity the point id derives from.
	URI() string
	// RecordKind names the owning collection.
	RecordKind() Kind
	// EmbedText is the text the dense and sparse vectors are computed over.
	EmbedText() string
	// ToPayload serialises the record into a vector store payload.
	ToPayload() map[string]any
}
