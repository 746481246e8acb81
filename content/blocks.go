package content

import (
	"encoding/json"
)

// Block is a single node of a document's content tree. The concrete kinds
// are TextBlock, ImageBlock and UnknownBlock; the set is closed so that
// consumers can switch over it exhaustively.
type Block interface {
	blockNode()
}

// Span is an inline text fragment inside a text block.
type Span struct {
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarshalJSON restores the wire discriminator.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string   `json:"_type"`
		Text  string   `json:"text"`
		Marks []string `json:"marks,omitempty"`
	}{Type: "span", Text: s.Text, Marks: s.Marks})
}

// UnmarshalJSON tolerates malformed or non-span children; they contribute
// nothing instead of failing the document.
func (s *Span) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type  string   `json:"_type"`
		Text  string   `json:"text"`
		Marks []string `json:"marks"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil
	}
	if aux.Type != "" && aux.Type != "span" {
		return nil
	}
	s.Text = aux.Text
	s.Marks = aux.Marks
	return nil
}

// MarkDef annotates spans within a text block. Links carry an Href.
type MarkDef struct {
	Key  string `json:"_key,omitempty"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}

// TextBlock is a paragraph, heading, quote or list item.
type TextBlock struct {
	Style    string    `json:"style"`
	ListItem string    `json:"listItem,omitempty"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`
}

func (*TextBlock) blockNode() {}

// Text concatenates the block's span texts.
func (b *TextBlock) Text() string {
	var out string
	for _, c := range b.Children {
		out += c.Text
	}
	return out
}

// MarshalJSON restores the wire discriminator.
func (b *TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return json.Marshal(struct {
		Type string `json:"_type"`
		*alias
	}{Type: "block", alias: (*alias)(b)})
}

// ImageBlock references an uploaded image asset.
type ImageBlock struct {
	Alt      string `json:"alt"`
	Caption  string `json:"caption,omitempty"`
	AssetRef string `json:"-"`
}

func (*ImageBlock) blockNode() {}

func (b *ImageBlock) UnmarshalJSON(data []byte) error {
	var aux struct {
		Alt     string `json:"alt"`
		Caption string `json:"caption"`
		Asset   struct {
			Ref string `json:"_ref"`
		} `json:"asset"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil
	}
	b.Alt = aux.Alt
	b.Caption = aux.Caption
	b.AssetRef = aux.Asset.Ref
	return nil
}

func (b *ImageBlock) MarshalJSON() ([]byte, error) {
	aux := struct {
		Type    string `json:"_type"`
		Alt     string `json:"alt"`
		Caption string `json:"caption,omitempty"`
		Asset   *struct {
			Ref string `json:"_ref"`
		} `json:"asset,omitempty"`
	}{Type: "image", Alt: b.Alt, Caption: b.Caption}
	if b.AssetRef != "" {
		aux.Asset = &struct {
			Ref string `json:"_ref"`
		}{Ref: b.AssetRef}
	}
	return json.Marshal(aux)
}

// UnknownBlock preserves embeds and other block kinds this service does not
// interpret. The raw JSON round-trips unchanged.
type UnknownBlock struct {
	Type string
	raw  json.RawMessage
}

func (*UnknownBlock) blockNode() {}

func (b *UnknownBlock) MarshalJSON() ([]byte, error) {
	if len(b.raw) > 0 {
		return b.raw, nil
	}
	return json.Marshal(struct {
		Type string `json:"_type"`
	}{Type: b.Type})
}

// Body is an ordered block sequence. Unmarshaling discriminates each element
// by its _type field; malformed elements and non-array payloads degrade to an
// empty body rather than erroring, so broken CMS data scores as missing
// content instead of crashing a scoring pass.
type Body []Block

func (b *Body) UnmarshalJSON(data []byte) error {
	*b = nil

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}

	blocks := make(Body, 0, len(raws))
	for _, raw := range raws {
		var probe struct {
			Type string `json:"_type"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			continue
		}

		switch probe.Type {
		case "block":
			var tb TextBlock
			if err := json.Unmarshal(raw, &tb); err != nil {
				continue
			}
			blocks = append(blocks, &tb)
		case "image":
			var ib ImageBlock
			if err := json.Unmarshal(raw, &ib); err != nil {
				continue
			}
			blocks = append(blocks, &ib)
		default:
			blocks = append(blocks, &UnknownBlock{Type: probe.Type, raw: append(json.RawMessage(nil), raw...)})
		}
	}

	*b = blocks
	return nil
}

// Slug mirrors the CMS slug object but also accepts a bare string.
type Slug struct {
	Current string `json:"current,omitempty"`
}

func (s *Slug) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Current = str
		return nil
	}
	var aux struct {
		Current string `json:"current"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil
	}
	s.Current = aux.Current
	return nil
}

// Author is the byline shown on a published post.
type Author struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// StructuredData feeds the site's schema.org markup.
type StructuredData struct {
	ArticleType          string `json:"articleType,omitempty"`
	LearningResourceType string `json:"learningResourceType,omitempty"`
	EducationalLevel     string `json:"educationalLevel,omitempty"`
	TimeRequired         string `json:"timeRequired,omitempty"`
}

// Document is a blog post snapshot as the CMS sends it. The CMS owns the
// record; this service only reads and annotates scoring metadata.
type Document struct {
	ID                 string          `json:"_id,omitempty"`
	Title              string          `json:"title"`
	Slug               Slug            `json:"slug,omitempty"`
	Excerpt            string          `json:"excerpt,omitempty"`
	Category           string          `json:"category,omitempty"`
	Tags               []string        `json:"tags,omitempty"`
	Author             Author          `json:"author,omitempty"`
	FeaturedImage      string          `json:"featuredImage,omitempty"`
	AltText            string          `json:"altText,omitempty"`
	Featured           bool            `json:"featured,omitempty"`
	PublishedAt        string          `json:"publishedAt,omitempty"`
	SEOTitle           string          `json:"seoTitle,omitempty"`
	SEODescription     string          `json:"seoDescription,omitempty"`
	FocusKeyword       string          `json:"focusKeyword,omitempty"`
	AdditionalKeywords []string        `json:"additionalKeywords,omitempty"`
	ReadingTime        int             `json:"readingTime,omitempty"`
	WordCount          int             `json:"wordCount,omitempty"`
	WorkflowStatus     string          `json:"workflowStatus,omitempty"`
	StructuredData     *StructuredData `json:"structuredData,omitempty"`
	SEOScore           int             `json:"seoScore,omitempty"`
	LastSEOCheck       string          `json:"lastSeoCheck,omitempty"`
	Body               Body            `json:"body,omitempty"`
}

// EffectiveTitle is what a search result would show for the document.
func (d *Document) EffectiveTitle() string {
	if d.SEOTitle != "" {
		return d.SEOTitle
	}
	return d.Title
}
