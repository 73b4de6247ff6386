package entity

// BlockKind identifies the variant of a rendered message block.
type BlockKind string

const (
	BlockSection BlockKind = "section"
	BlockDivider BlockKind = "divider"
	BlockHeader  BlockKind = "header"
	BlockImage   BlockKind = "image"
)

// Block is one unit of a chat message's visual structure.
// Text is used by section (markdown) and header (plain text) blocks,
// ImageURL and AltText by image blocks. Dividers carry no data.
type Block struct {
	Kind     BlockKind
	Text     string
	ImageURL string
	AltText  string
}

// SectionBlock returns a markdown text section.
func SectionBlock(text string) Block {
	return Block{Kind: BlockSection, Text: text}
}

// DividerBlock returns a divider.
func DividerBlock() Block {
	return Block{Kind: BlockDivider}
}

// HeaderBlock returns a plain-text header.
func HeaderBlock(text string) Block {
	return Block{Kind: BlockHeader, Text: text}
}

// ImageBlock returns an image block.
func ImageBlock(url, altText string) Block {
	return Block{Kind: BlockImage, ImageURL: url, AltText: altText}
}
