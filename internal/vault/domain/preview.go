package domain

// PreviewToken is the caller-held handle the preview operation returns
// alongside plaintext bytes (spec §4.5: "return plaintext bytes plus a
// caller-held token that the renderer must present on release so the
// manager can ensure wiping of preview buffers"). It carries no secret
// material itself — only a manager-assigned sequence number used to
// track which previews are still open.
type PreviewToken struct {
	id uint64
}

// NewPreviewToken wraps a manager-assigned sequence number.
func NewPreviewToken(id uint64) PreviewToken {
	return PreviewToken{id: id}
}

// ID reports the token's sequence number.
func (t PreviewToken) ID() uint64 {
	return t.id
}
