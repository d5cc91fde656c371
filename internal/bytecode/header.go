package bytecode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tinscript-go/tinscript/pkg/script"
)

// Magic identifies a compiled TinScript bytecode file.
var Magic = [4]byte{'T', 'S', 'B', 'C'}

// CompilerVersion is bumped on any instruction-format change. A mismatch
// always means "recompile from source" — no forward-compatibility shims
// are attempted (spec §9's redesign note).
const CompilerVersion uint32 = 1

// wordsPerInstr is the fixed word width each Instr is packed into on disk.
const wordsPerInstr = 5

// Header is the fixed prefix of a compiled bytecode file.
type Header struct {
	CompilerVersion uint32
	SourceHash      uint32
}

// WriteBlock serializes b to w in the on-disk layout: magic, header,
// count-prefixed constant pool, count-prefixed instruction words, and an
// optional line-number map when withDebug is true.
func WriteBlock(w io.Writer, b *Block, sourceHash uint32, withDebug bool) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(Magic[:]); err != nil {
		return err
	}
	if err := writeU32(bw, CompilerVersion); err != nil {
		return err
	}
	if err := writeU32(bw, sourceHash); err != nil {
		return err
	}

	if err := writeU32(bw, uint32(len(b.ConstPool))); err != nil {
		return err
	}
	for _, s := range b.ConstPool {
		if _, err := bw.Write([]byte(s)); err != nil {
			return err
		}
		if err := bw.WriteByte(0); err != nil {
			return err
		}
	}

	if err := writeU32(bw, uint32(len(b.Instrs)*wordsPerInstr)); err != nil {
		return err
	}
	for _, in := range b.Instrs {
		words := [wordsPerInstr]uint32{
			uint32(in.Op)<<24 | uint32(in.Type)<<16,
			uint32(in.Hash),
			uint32(in.A),
			uint32(in.B),
			uint32(in.Const),
		}
		for _, w32 := range words {
			if err := writeU32(bw, w32); err != nil {
				return err
			}
		}
	}

	if withDebug {
		lines := make([]int, 0, len(b.Instrs))
		for _, in := range b.Instrs {
			lines = append(lines, in.Line)
		}
		if err := writeU32(bw, uint32(len(lines))); err != nil {
			return err
		}
		for ip, line := range lines {
			if err := writeU32(bw, uint32(ip)); err != nil {
				return err
			}
			if err := writeU32(bw, uint32(line)); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ReadBlock parses a compiled bytecode file written by WriteBlock. A
// CompilerVersion mismatch returns script.ErrMustRecompile rather than
// attempting to interpret an incompatible instruction format.
func ReadBlock(r io.Reader) (*Block, Header, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, Header{}, fmt.Errorf("bytecode: read magic: %w", err)
	}
	if magic != Magic {
		return nil, Header{}, fmt.Errorf("bytecode: bad magic %q", magic)
	}

	compilerVersion, err := readU32(br)
	if err != nil {
		return nil, Header{}, err
	}
	if compilerVersion != CompilerVersion {
		return nil, Header{}, script.ErrMustRecompile
	}
	sourceHash, err := readU32(br)
	if err != nil {
		return nil, Header{}, err
	}

	constCount, err := readU32(br)
	if err != nil {
		return nil, Header{}, err
	}
	constPool := make([]string, 0, constCount)
	for i := uint32(0); i < constCount; i++ {
		s, err := readCString(br)
		if err != nil {
			return nil, Header{}, err
		}
		constPool = append(constPool, s)
	}

	wordCount, err := readU32(br)
	if err != nil {
		return nil, Header{}, err
	}
	if wordCount%wordsPerInstr != 0 {
		return nil, Header{}, fmt.Errorf("bytecode: instruction word count %d not a multiple of %d", wordCount, wordsPerInstr)
	}
	instrs := make([]Instr, 0, wordCount/wordsPerInstr)
	for i := uint32(0); i < wordCount; i += wordsPerInstr {
		w0, err := readU32(br)
		if err != nil {
			return nil, Header{}, err
		}
		hashW, err := readU32(br)
		if err != nil {
			return nil, Header{}, err
		}
		aW, err := readU32(br)
		if err != nil {
			return nil, Header{}, err
		}
		bW, err := readU32(br)
		if err != nil {
			return nil, Header{}, err
		}
		cW, err := readU32(br)
		if err != nil {
			return nil, Header{}, err
		}
		instrs = append(instrs, Instr{
			Op:    Opcode(w0 >> 24),
			Type:  script.VarType((w0 >> 16) & 0xFF),
			Hash:  script.Hash(hashW),
			A:     int32(aW),
			B:     int32(bW),
			Const: int32(cW),
		})
	}

	// Optional line-number map: only present when the writer included one,
	// detected by attempting to read it and tolerating EOF.
	lineCount, err := readU32(br)
	if err == nil {
		for i := uint32(0); i < lineCount && i < uint32(len(instrs)); i++ {
			ip, err := readU32(br)
			if err != nil {
				break
			}
			line, err := readU32(br)
			if err != nil {
				break
			}
			if int(ip) < len(instrs) {
				instrs[ip].Line = int(line)
			}
		}
	}

	return NewBlock(instrs, constPool), Header{CompilerVersion: compilerVersion, SourceHash: sourceHash}, nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readCString(r *bufio.Reader) (string, error) {
	s, err := r.ReadString(0)
	if err != nil {
		return "", err
	}
	return s[:len(s)-1], nil
}
