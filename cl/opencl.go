//go:build opencl

package cl

// OpenCLBackend is a stub backend enabled with the "opencl" build tag.
// A working implementation would compile Source.Text with the system
// OpenCL runtime; until then it reports itself unavailable.
type OpenCLBackend struct{}

func (b *OpenCLBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "opencl",
		Description: "OpenCL backend stub (no implementation)",
		Platform:    Version{Major: 2, Minor: 2},
	}
}

func (b *OpenCLBackend) Available() bool {
	return false
}

func (b *OpenCLBackend) NewContext() (Context, error) {
	return nil, ErrBackendUnavailable
}

// RegisterOpenCLBackend registers the OpenCL backend stub.
func RegisterOpenCLBackend() {
	Register(&OpenCLBackend{})
}
