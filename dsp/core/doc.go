// Package core provides small numeric helpers shared by the filter and
// observer packages.
package core
