// Package language validates and canonicalises the BCP 47 language tags
// passed to the speech backend (for example "en-US" or "pt-BR").
package language
