package openlibrary

// SearchDoc is one projected result from a catalog search.
type SearchDoc struct {
	// WorkKey identifies the work across editions, e.g. "/works/OL45883W".
	WorkKey     string
	Title       string
	Author      string // first listed author, empty if none
	PublishYear *int
	CoverID     *int64
}

// WorkDetail holds the publish-date fields of a work record.
type WorkDetail struct {
	FirstPublishYear     *int
	FirstPublishDateText string
}

// Edition holds the publish-date field of a single edition.
type Edition struct {
	PublishDateText string
}

// CoverImage is a fetched cover with its reported content type.
type CoverImage struct {
	Bytes    []byte
	MimeType string
}

// CoverSize selects the covers-service image variant.
type CoverSize string

const (
	CoverSizeSmall  CoverSize = "S"
	CoverSizeMedium CoverSize = "M"
	CoverSizeLarge  CoverSize = "L"
)

// rawSearchResponse mirrors the /search.json payload.
type rawSearchResponse struct {
	Docs []rawSearchDoc `json:"docs"`
}

type rawSearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	CoverI           *int64   `json:"cover_i"`
}

// rawWork mirrors the /works/{id}.json payload fields we consume.
type rawWork struct {
	FirstPublishYear *int   `json:"first_publish_year"`
	FirstPublishDate string `json:"first_publish_date"`
}

// rawEditions mirrors the /works/{id}/editions.json payload.
type rawEditions struct {
	Entries []rawEdition `json:"entries"`
}

type rawEdition struct {
	PublishDate string `json:"publish_date"`
}
