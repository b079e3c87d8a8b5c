// Package plugin implements blockcipher.Provider over a WASM guest
// module loaded with wazero, an alternate to blockcipher.Default for
// callers that want cipher operations executed by a WASM guest, which
// wazero runs sandboxed inside the host process. Grounded on go_hsm's internal/plugins.PluginManager: the
// same Alloc/Execute export convention and packed ptr<<32|len calling
// convention, generalized from "HSM command plugin" to "cipher
// operation plugin."
package plugin

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/cardflow/hsmkit/pkg/blockcipher"
	"github.com/cardflow/hsmkit/pkg/hsmerr"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// operation identifies which cipher transform the guest should perform.
type operation byte

const (
	opEncryptECB operation = iota
	opDecryptECB
	opEncryptCBC
	opDecryptCBC
)

// Provider is a blockcipher.Provider backed by a single WASM module
// exporting Alloc, Free, and Execute.
type Provider struct {
	//nolint:containedctx // held for reuse across calls, matching PluginManager.
	ctx     context.Context
	runtime wazero.Runtime
	module  api.Module
	alloc   api.Function
	free    api.Function
	execute api.Function
	mu      sync.Mutex
}

var _ blockcipher.Provider = (*Provider)(nil)

// Load compiles and instantiates wasmBytes as a cipher-operation
// plugin. The module must export "Alloc", "Free", and "Execute".
func Load(ctx context.Context, wasmBytes []byte) (*Provider, error) {
	rt := wazero.NewRuntime(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)

		return nil, fmt.Errorf("%w: instantiate wasi: %v", hsmerr.ErrInternal, err)
	}

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = rt.Close(ctx)

		return nil, fmt.Errorf("%w: compile plugin module: %v", hsmerr.ErrMalformedInput, err)
	}

	module, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStartFunctions())
	if err != nil {
		_ = rt.Close(ctx)

		return nil, fmt.Errorf("%w: instantiate plugin module: %v", hsmerr.ErrInternal, err)
	}

	alloc := module.ExportedFunction("Alloc")
	free := module.ExportedFunction("Free")
	execute := module.ExportedFunction("Execute")
	if alloc == nil || free == nil || execute == nil {
		_ = rt.Close(ctx)

		return nil, fmt.Errorf("%w: plugin must export Alloc, Free, and Execute", hsmerr.ErrMalformedInput)
	}

	return &Provider{
		ctx:     ctx,
		runtime: rt,
		module:  module,
		alloc:   alloc,
		free:    free,
		execute: execute,
	}, nil
}

// Close releases the underlying WASM runtime.
func (p *Provider) Close() error {
	return p.runtime.Close(p.ctx)
}

// request is the wire format sent to the guest: a single byte
// discriminating the operation, a single byte cipher family, a
// length-prefixed key, a length-prefixed iv (empty for ECB), a single
// padding-scheme byte, and the length-prefixed data itself.
func encodeRequest(op operation, family blockcipher.Family, key, iv []byte, padding blockcipher.Padding, data []byte) []byte {
	buf := make([]byte, 0, 2+4+len(key)+4+len(iv)+1+4+len(data))
	buf = append(buf, byte(op), byte(family))
	buf = appendLenPrefixed(buf, key)
	buf = appendLenPrefixed(buf, iv)
	buf = append(buf, byte(padding))
	buf = appendLenPrefixed(buf, data)

	return buf
}

func appendLenPrefixed(buf, data []byte) []byte {
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(data)))
	buf = append(buf, lenBytes[:]...)

	return append(buf, data...)
}

// call allocates guest memory for req, invokes Execute, reads back the
// guest's response, and frees the input buffer. The guest is expected
// to return a packed (ptr<<32|len) result pointing at its own
// allocation, which the caller is responsible for freeing via Free.
func (p *Provider) call(req []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	allocRes, err := p.alloc.Call(p.ctx, uint64(len(req)))
	if err != nil || len(allocRes) == 0 {
		return nil, fmt.Errorf("%w: plugin alloc failed: %v", hsmerr.ErrInternal, err)
	}
	inPtr := api.DecodeU32(allocRes[0])

	if !p.module.Memory().Write(inPtr, req) {
		return nil, fmt.Errorf("%w: plugin memory write out of bounds", hsmerr.ErrInternal)
	}

	execRes, err := p.execute.Call(p.ctx, uint64(inPtr)<<32|uint64(len(req)))
	if _, ferr := p.free.Call(p.ctx, uint64(inPtr)); ferr != nil {
		return nil, fmt.Errorf("%w: plugin free failed: %v", hsmerr.ErrInternal, ferr)
	}
	if err != nil || len(execRes) == 0 {
		return nil, fmt.Errorf("%w: plugin execute failed: %v", hsmerr.ErrCryptoFailure, err)
	}

	outPtr := api.DecodeU32(execRes[0] >> 32)
	outLen := api.DecodeU32(execRes[0])
	if outLen == 0 {
		return nil, fmt.Errorf("%w: plugin returned no data", hsmerr.ErrCryptoFailure)
	}

	out, ok := p.module.Memory().Read(outPtr, outLen)
	if !ok {
		return nil, fmt.Errorf("%w: plugin result memory read out of bounds", hsmerr.ErrInternal)
	}

	result := make([]byte, len(out))
	copy(result, out)

	if _, err := p.free.Call(p.ctx, uint64(outPtr)); err != nil {
		return nil, fmt.Errorf("%w: plugin free of result failed: %v", hsmerr.ErrInternal, err)
	}

	return result, nil
}

// EncryptECBNoPadding implements blockcipher.Provider.
func (p *Provider) EncryptECBNoPadding(family blockcipher.Family, key, data []byte) ([]byte, error) {
	return p.call(encodeRequest(opEncryptECB, family, key, nil, blockcipher.NoPadding, data))
}

// DecryptECBNoPadding implements blockcipher.Provider.
func (p *Provider) DecryptECBNoPadding(family blockcipher.Family, key, data []byte) ([]byte, error) {
	return p.call(encodeRequest(opDecryptECB, family, key, nil, blockcipher.NoPadding, data))
}

// EncryptCBC implements blockcipher.Provider.
func (p *Provider) EncryptCBC(
	family blockcipher.Family,
	key, iv, data []byte,
	padding blockcipher.Padding,
) ([]byte, error) {
	return p.call(encodeRequest(opEncryptCBC, family, key, iv, padding, data))
}

// DecryptCBC implements blockcipher.Provider.
func (p *Provider) DecryptCBC(
	family blockcipher.Family,
	key, iv, data []byte,
	padding blockcipher.Padding,
) ([]byte, error) {
	return p.call(encodeRequest(opDecryptCBC, family, key, iv, padding, data))
}
