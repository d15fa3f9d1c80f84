package producttypes

import (
	"net/url"
	"path"
)

const basePath = "/product-types/"

// ListURL is the product type list.
func ListURL() string {
	return basePath
}

// AddURL mounts a new creation page, optionally preselecting kind.
func AddURL(kind Kind) string {
	u := basePath + "add"
	if kind != "" {
		u += "?" + url.Values{"kind": {string(kind)}}.Encode()
	}
	return u
}

// DraftURL addresses a mounted creation page.
func DraftURL(id string) string {
	return path.Join(basePath, "add", url.PathEscape(id))
}

// CancelURL discards a mounted creation page.
func CancelURL(id string) string {
	return DraftURL(id) + "/cancel"
}
