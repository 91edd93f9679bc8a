// internal/app/system/limits/limits.go
package limits

// MaxJSONBody bounds any admin JSON request body. Admin bodies are small
// documents; anything larger is cut off before it reaches the decoder.
const MaxJSONBody = 1 << 20 // 1 MB
