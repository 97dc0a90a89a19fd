package dataset

import "github.com/lehigh-university-libraries/extractor/internal/models"

// PeriodicalRecord is one labeled document in an evaluation dataset: the
// raw text the pipeline will see plus the operator-verified metadata it
// should produce.
type PeriodicalRecord struct {
	Identifier   string `json:"identifier" parquet:"identifier"`
	RawText      string `json:"raw_text" parquet:"raw_text"`
	TargetPeriod string `json:"target_period" parquet:"target_period"`

	// Ground-truth metadata
	Title       string `json:"title" parquet:"title"`
	PubDate     string `json:"pub_date" parquet:"pub_date"`
	Description string `json:"description" parquet:"description"`
	VolumeIssue string `json:"volume_issue" parquet:"volume_issue"`
}

// Reference returns the ground-truth metadata as a MetadataRecord.
func (r *PeriodicalRecord) Reference() models.MetadataRecord {
	return models.MetadataRecord{
		Title:       r.Title,
		PubDate:     r.PubDate,
		Description: r.Description,
		VolumeIssue: r.VolumeIssue,
	}
}
