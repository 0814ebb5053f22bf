package main

import (
	"io"
	"machine"
	"runtime"
	"time"
)

// serialIO adapts a machine.Serialer, which only reads bytes that are already
// buffered, to a blocking io.ReadWriter.
type serialIO struct {
	machine.Serialer
}

var _ io.ReadWriter = serialIO{}

func (s serialIO) Read(b []byte) (int, error) {
	for {
		n := s.Buffered()
		if n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		if n > len(b) {
			n = len(b)
		}
		for i := 0; i < n; i++ {
			c, err := s.ReadByte()
			if err != nil {
				return i, err
			}
			b[i] = c
		}
		runtime.Gosched()
		return n, nil
	}
}

func (s serialIO) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := s.WriteByte(c); err != nil {
			return i, err
		}
	}
	runtime.Gosched()
	return len(b), nil
}
