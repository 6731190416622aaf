package store

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"lexingest/internal/domain"
	"lexingest/internal/embed"
)

const (
	denseVectorName  = "dense"
	sparseVectorName = "sparse"
)

// fieldIndexes lists the payload fields each collection filters on.
// Fields absent for a kind get no index.
var fieldIndexes = map[domain.Kind][]fieldIndex{
	domain.KindLegislation: {
		{"id", qdrant.FieldType_FieldTypeKeyword},
		{"legislation_type", qdrant.FieldType_FieldTypeKeyword},
		{"year", qdrant.FieldType_FieldTypeInteger},
		{"number", qdrant.FieldType_FieldTypeInteger},
		{"status", qdrant.FieldType_FieldTypeKeyword},
		{"extent", qdrant.FieldType_FieldTypeKeyword},
	},
	domain.KindLegislationSection: {
		{"id", qdrant.FieldType_FieldTypeKeyword},
		{"legislation_id", qdrant.FieldType_FieldTypeKeyword},
		{"legislation_type", qdrant.FieldType_FieldTypeKeyword},
		{"year", qdrant.FieldType_FieldTypeInteger},
		{"number", qdrant.FieldType_FieldTypeInteger},
	},
	domain.KindAmendment: {
		{"id", qdrant.FieldType_FieldTypeKeyword},
		{"changed_url", qdrant.FieldType_FieldTypeKeyword},
		{"affecting_url", qdrant.FieldType_FieldTypeKeyword},
		{"changed_year", qdrant.FieldType_FieldTypeInteger},
		{"affecting_year", qdrant.FieldType_FieldTypeInteger},
	},
	domain.KindExplanatoryNote: {
		{"id", qdrant.FieldType_FieldTypeKeyword},
		{"legislation_id", qdrant.FieldType_FieldTypeKeyword},
		{"note_type", qdrant.FieldType_FieldTypeKeyword},
		{"section_type", qdrant.FieldType_FieldTypeKeyword},
		{"section_number", qdrant.FieldType_FieldTypeInteger},
	},
	domain.KindCaselaw: {
		{"id", qdrant.FieldType_FieldTypeKeyword},
		{"court", qdrant.FieldType_FieldTypeKeyword},
		{"division", qdrant.FieldType_FieldTypeKeyword},
		{"year", qdrant.FieldType_FieldTypeInteger},
		{"number", qdrant.FieldType_FieldTypeInteger},
		{"caselaw_references", qdrant.FieldType_FieldTypeKeyword},
		{"legislation_references", qdrant.FieldType_FieldTypeKeyword},
	},
	domain.KindCaselawSection: {
		{"id", qdrant.FieldType_FieldTypeKeyword},
		{"caselaw_id", qdrant.FieldType_FieldTypeKeyword},
		{"court", qdrant.FieldType_FieldTypeKeyword},
		{"year", qdrant.FieldType_FieldTypeInteger},
		{"number", qdrant.FieldType_FieldTypeInteger},
	},
	domain.KindCaselawSummary: {
		{"id", qdrant.FieldType_FieldTypeKeyword},
		{"caselaw_id", qdrant.FieldType_FieldTypeKeyword},
		{"court", qdrant.FieldType_FieldTypeKeyword},
		{"year", qdrant.FieldType_FieldTypeInteger},
		{"number", qdrant.FieldType_FieldTypeInteger},
	},
}

type fieldIndex struct {
	name  string
	ftype qdrant.FieldType
}

// EnsureCollections creates any missing collections and their payload
// indexes. Existing collections are left untouched, so the call is safe
// on every startup.
func (s *Store) EnsureCollections(ctx context.Context) error {
	for _, kind := range domain.AllKinds() {
		exists, err := s.client.CollectionExists(ctx, kind.Collection())
		if err != nil {
			return fmt.Errorf("failed to check collection %s: %w", kind.Collection(), err)
		}
		if exists {
			continue
		}
		if err := s.createCollection(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createCollection(ctx context.Context, kind domain.Kind) error {
	req := &qdrant.CreateCollection{
		CollectionName: kind.Collection(),
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			denseVectorName: {
				Size:     uint64(embed.Dimensions),
				Distance: qdrant.Distance_Cosine,
			},
		}),
		SparseVectorsConfig: qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			sparseVectorName: {},
		}),
	}

	// Judgment collections are by far the largest; quantise them to keep
	// the hot set resident in memory.
	if kind.Quantized() {
		req.QuantizationConfig = qdrant.NewQuantizationScalar(&qdrant.ScalarQuantization{
			Type:      qdrant.QuantizationType_Int8,
			Quantile:  qdrant.PtrOf(float32(0.99)),
			AlwaysRam: qdrant.PtrOf(true),
		})
	}

	if err := s.client.CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", kind.Collection(), err)
	}

	for _, idx := range fieldIndexes[kind] {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: kind.Collection(),
			FieldName:      idx.name,
			FieldType:      idx.ftype.Enum(),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("failed to index %s.%s: %w", kind.Collection(), idx.name, err)
		}
	}

	s.logger.Info("collection created",
		"collection", kind.Collection(),
		"quantized", kind.Quantized(),
		"indexes", len(fieldIndexes[kind]))
	return nil
}
