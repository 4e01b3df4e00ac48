package crossref

// Response is the envelope wrapping every single-work lookup.
type Response struct {
	Status         string `json:"status"`
	MessageType    string `json:"message-type"`
	MessageVersion string `json:"message-version"`
	Message        Work   `json:"message"`
}

// Work is the registry's record of a single scholarly work. Optional fields
// decode to their zero values; collections stay nil when absent. Relation
// keeps every key the registry sent, including those mapped to empty
// sequences.
type Work struct {
	Institution         []Institution            `json:"institution,omitempty"`
	Indexed             *DateAndVersion          `json:"indexed,omitempty"`
	Description         string                   `json:"description,omitempty"`
	Posted              *DateParts               `json:"posted,omitempty"`
	PublisherLocation   string                   `json:"publisher-location,omitempty"`
	UpdateTo            []WorkUpdate             `json:"update-to,omitempty"`
	EditionNumber       string                   `json:"edition-number,omitempty"`
	GroupTitle          string                   `json:"group-title,omitempty"`
	ReferenceCount      int64                    `json:"reference-count,omitempty"`
	Publisher           string                   `json:"publisher,omitempty"`
	Issue               string                   `json:"issue,omitempty"`
	ISBNType            []IdentifierType         `json:"isbn-type,omitempty"`
	License             []License                `json:"license,omitempty"`
	Funder              []Funder                 `json:"funder,omitempty"`
	ContentDomain       *ContentDomain           `json:"content-domain,omitempty"`
	Chair               []Author                 `json:"chair,omitempty"`
	ShortContainerTitle []string                 `json:"short-container-title,omitempty"`
	Accepted            *DateParts               `json:"accepted,omitempty"`
	PublishedPrint      *DateParts               `json:"published-print,omitempty"`
	Abstract            string                   `json:"abstract,omitempty"`
	DOI                 string                   `json:"DOI,omitempty"`
	Type                string                   `json:"type,omitempty"`
	Created             *Date                    `json:"created,omitempty"`
	Approved            *DateParts               `json:"approved,omitempty"`
	Page                string                   `json:"page,omitempty"`
	UpdatePolicy        string                   `json:"update-policy,omitempty"`
	Source              string                   `json:"source,omitempty"`
	IsReferencedByCount int64                    `json:"is-referenced-by-count,omitempty"`
	Title               []string                 `json:"title,omitempty"`
	Prefix              string                   `json:"prefix,omitempty"`
	Volume              string                   `json:"volume,omitempty"`
	ClinicalTrial       []ClinicalTrial          `json:"clinical-trial-number,omitempty"`
	Author              []Author                 `json:"author,omitempty"`
	Member              string                   `json:"member,omitempty"`
	PublishedOnline     *DateParts               `json:"published-online,omitempty"`
	Reference           []Reference              `json:"reference,omitempty"`
	UpdatedBy           []WorkUpdate             `json:"updated-by,omitempty"`
	Event               *Event                   `json:"event,omitempty"`
	ContainerTitle      []string                 `json:"container-title,omitempty"`
	Review              *Review                  `json:"review,omitempty"`
	OriginalTitle       []string                 `json:"original-title,omitempty"`
	Language            string                   `json:"language,omitempty"`
	Link                []Link                   `json:"link,omitempty"`
	Deposited           *Date                    `json:"deposited,omitempty"`
	Score               float64                  `json:"score,omitempty"`
	Resource            *Resources               `json:"resource,omitempty"`
	Subtitle            []string                 `json:"subtitle,omitempty"`
	ShortTitle          []string                 `json:"short-title,omitempty"`
	Issued              *DateParts               `json:"issued,omitempty"`
	ReferencesCount     int64                    `json:"references-count,omitempty"`
	JournalIssue        *JournalIssue            `json:"journal-issue,omitempty"`
	URL                 string                   `json:"URL,omitempty"`
	Relation            map[string][]RelatedWork `json:"relation,omitempty"`
	ISSN                []string                 `json:"ISSN,omitempty"`
	ISSNType            []IdentifierType         `json:"issn-type,omitempty"`
	Subject             []string                 `json:"subject,omitempty"`
	Published           *DateParts               `json:"published,omitempty"`
	Assertion           []Assertion              `json:"assertion,omitempty"`
	ISBN                []string                 `json:"ISBN,omitempty"`
	IssueTitle          []string                 `json:"issue-title,omitempty"`
	AlternativeID       []string                 `json:"alternative-id,omitempty"`
	Archive             []string                 `json:"archive,omitempty"`
	ArticleNumber       string                   `json:"article-number,omitempty"`
	Editor              []Author                 `json:"editor,omitempty"`
	FreeToRead          *FreeToRead              `json:"free-to-read,omitempty"`
	Translator          []Author                 `json:"translator,omitempty"`
	Subtype             string                   `json:"subtype,omitempty"`
	Degree              []string                 `json:"degree,omitempty"`
}

// DateParts is a partial date as nested year/month/day sequences; elements
// the registry does not know are null.
type DateParts struct {
	DateParts [][]*int64 `json:"date-parts,omitempty"`
}

// Date is a fully resolved date with machine-readable variants.
type Date struct {
	DateParts [][]int64 `json:"date-parts,omitempty"`
	DateTime  string    `json:"date-time,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"`
}

// DateAndVersion is a Date carrying the metadata schema version in effect
// when the record was indexed.
type DateAndVersion struct {
	DateParts [][]int64 `json:"date-parts,omitempty"`
	Version   string    `json:"version,omitempty"`
	DateTime  string    `json:"date-time,omitempty"`
	Timestamp int64     `json:"timestamp,omitempty"`
}

// Author is a contributor in any role (author, editor, chair, translator).
type Author struct {
	Given       string        `json:"given,omitempty"`
	Family      string        `json:"family,omitempty"`
	Name        string        `json:"name,omitempty"`
	ORCID       string        `json:"ORCID,omitempty"`
	Suffix      string        `json:"suffix,omitempty"`
	Sequence    string        `json:"sequence,omitempty"`
	Affiliation []Affiliation `json:"affiliation,omitempty"`
}

// Affiliation names an institution a contributor belongs to.
type Affiliation struct {
	Name string `json:"name,omitempty"`
}

// Institution is an organization connected to the work itself.
type Institution struct {
	Name       string   `json:"name,omitempty"`
	Place      []string `json:"place,omitempty"`
	Department []string `json:"department,omitempty"`
	Acronym    []string `json:"acronym,omitempty"`
}

// License is a content license attached to the work.
type License struct {
	URL            string `json:"URL,omitempty"`
	Start          *Date  `json:"start,omitempty"`
	DelayInDays    int64  `json:"delay-in-days,omitempty"`
	ContentVersion string `json:"content-version,omitempty"`
}

// Funder credits a funding body, optionally with award identifiers.
type Funder struct {
	Name          string   `json:"name,omitempty"`
	DOI           string   `json:"DOI,omitempty"`
	Award         []string `json:"award,omitempty"`
	DOIAssertedBy string   `json:"doi-asserted-by,omitempty"`
}

// ContentDomain describes Crossmark domain restrictions.
type ContentDomain struct {
	Domain               []string `json:"domain,omitempty"`
	CrossmarkRestriction bool     `json:"crossmark-restriction,omitempty"`
}

// ClinicalTrial links the work to a registered clinical trial.
type ClinicalTrial struct {
	ClinicalTrialNumber string `json:"clinical-trial-number,omitempty"`
	Registry            string `json:"registry,omitempty"`
	Type                string `json:"type,omitempty"`
}

// Reference is a single entry of the work's bibliography.
type Reference struct {
	Key           string `json:"key,omitempty"`
	DOI           string `json:"DOI,omitempty"`
	DOIAssertedBy string `json:"doi-asserted-by,omitempty"`
	Issue         string `json:"issue,omitempty"`
	FirstPage     string `json:"first-page,omitempty"`
	Volume        string `json:"volume,omitempty"`
	Author        string `json:"author,omitempty"`
	Year          string `json:"year,omitempty"`
	JournalTitle  string `json:"journal-title,omitempty"`
	ArticleTitle  string `json:"article-title,omitempty"`
	Unstructured  string `json:"unstructured,omitempty"`
}

// WorkUpdate records a correction, retraction, or similar update relation.
type WorkUpdate struct {
	Updated *Date  `json:"updated,omitempty"`
	DOI     string `json:"DOI,omitempty"`
	Type    string `json:"type,omitempty"`
	Label   string `json:"label,omitempty"`
}

// Event is the conference or similar venue a work was presented at.
type Event struct {
	Name     string     `json:"name,omitempty"`
	Location string     `json:"location,omitempty"`
	Acronym  string     `json:"acronym,omitempty"`
	Start    *DateParts `json:"start,omitempty"`
	End      *DateParts `json:"end,omitempty"`
}

// Review describes a peer-review item.
type Review struct {
	Type                       string `json:"type,omitempty"`
	RunningNumber              string `json:"running-number,omitempty"`
	RevisionRound              string `json:"revision-round,omitempty"`
	Stage                      string `json:"stage,omitempty"`
	CompetingInterestStatement string `json:"competing-interest-statement,omitempty"`
	Recommendation             string `json:"recommendation,omitempty"`
	Language                   string `json:"language,omitempty"`
}

// Link is a full-text or supplementary resource location.
type Link struct {
	URL                 string `json:"URL,omitempty"`
	ContentType         string `json:"content-type,omitempty"`
	ContentVersion      string `json:"content-version,omitempty"`
	IntendedApplication string `json:"intended-application,omitempty"`
}

// Resources holds the registered resolution targets for the work.
type Resources struct {
	Primary *ResourceLink `json:"primary,omitempty"`
}

// ResourceLink is a single resolution target.
type ResourceLink struct {
	URL string `json:"URL,omitempty"`
}

// IdentifierType is a typed serial identifier (print vs electronic ISSN or
// ISBN).
type IdentifierType struct {
	Value string `json:"value,omitempty"`
	Type  string `json:"type,omitempty"`
}

// JournalIssue places the work inside a journal issue.
type JournalIssue struct {
	Issue           string     `json:"issue,omitempty"`
	PublishedPrint  *DateParts `json:"published-print,omitempty"`
	PublishedOnline *DateParts `json:"published-online,omitempty"`
}

// RelatedWork is one endpoint of a typed relation between works.
type RelatedWork struct {
	ID         string `json:"id,omitempty"`
	IDType     string `json:"id-type,omitempty"`
	AssertedBy string `json:"asserted-by,omitempty"`
}

// FreeToRead marks an open-access window.
type FreeToRead struct {
	StartDate *DateParts `json:"start-date,omitempty"`
	EndDate   *DateParts `json:"end-date,omitempty"`
}

// Assertion is a publisher-supplied key/value annotation.
type Assertion struct {
	Name  string          `json:"name,omitempty"`
	Value string          `json:"value,omitempty"`
	URL   string          `json:"URL,omitempty"`
	Order int64           `json:"order,omitempty"`
	Label string          `json:"label,omitempty"`
	Group *AssertionGroup `json:"group,omitempty"`
}

// AssertionGroup clusters related assertions for display.
type AssertionGroup struct {
	Name  string `json:"name,omitempty"`
	Label string `json:"label,omitempty"`
}
