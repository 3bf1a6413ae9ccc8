// Package paths provides centralized path handling for stencil.
//
// Two groups of paths live here:
//
//   - the persisted template layout, <user-root>/.<product>/<set>-templates,
//     which is a compatibility contract with previously synchronized trees;
//   - stencil's own XDG directories (configuration), resolved through
//     github.com/adrg/xdg with environment overrides.
package paths
