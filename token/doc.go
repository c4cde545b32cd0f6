// Package token manages credential issuance and verification using configured signing keys
// and strict validation semantics suitable for low-latency authorization paths.
package token
