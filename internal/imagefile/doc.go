// Package imagefile validates and prepares local images for upload.
//
// Validation checks the extension, the 50MB size cap, and the leading
// bytes of the file against known image signatures (JPEG, PNG, GIF,
// WEBP), so a renamed text file is rejected before anything reaches
// the server. ReadBase64 returns the encoded payload for uploads, and
// AutoResolution picks an analysis resolution from the file size when
// the user does not specify one.
package imagefile
