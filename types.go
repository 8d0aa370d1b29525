package bitonic

import "github.com/cwbudde/algo-bitonic/internal/btypes"

// Element is the constraint for element types the accelerator backends
// can place in device buffers. The canonical definition is in
// internal/btypes.
type Element = btypes.Element

// Ordered is the constraint for the sequential engine, which accepts
// any ordered type. The canonical definition is in internal/btypes.
type Ordered = btypes.Ordered
