// Package openapi exports screen schemas as OpenAPI 3 request bodies so the
// backend that eventually receives a submission can share the client rules.
// Each rule kind maps onto the closest JSON Schema keyword; rules without a
// counterpart (equalsField) are carried as x- extensions, and every rule
// message is published under x-messages.
package openapi
