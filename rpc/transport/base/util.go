package base

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
)

const headerSize = 16

// writeFrame writes a frame to the connection with the format:
// - 8 bytes: requestID (uint64, big endian)
// - 2 bytes: actor length (uint16, big endian)
// - 2 bytes: operation length (uint16, big endian)
// - 4 bytes: payload length (uint32, big endian)
// - N bytes: actor | operation | payload
func writeFrame(conn net.Conn, requestID uint64, actor, op string, data []byte) error {
	if len(actor) > math.MaxUint16 || len(op) > math.MaxUint16 {
		return fmt.Errorf("actor or operation name exceeds frame limit")
	}

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint64(header[:8], requestID)
	binary.BigEndian.PutUint16(header[8:10], uint16(len(actor)))
	binary.BigEndian.PutUint16(header[10:12], uint16(len(op)))
	binary.BigEndian.PutUint32(header[12:16], uint32(len(data)))

	b := net.Buffers{header, []byte(actor), []byte(op), data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads a frame from the connection using the provided buffer
// If the buffer is too small, it will allocate a new temporary buffer for the data
func readFrame(conn net.Conn, buf []byte) (uint64, string, string, []byte, error) {
	// Check if buffer is large enough for header
	if buf == nil || len(buf) < headerSize {
		buf = make([]byte, headerSize)
	}

	// Read header
	if _, err := io.ReadFull(conn, buf[:headerSize]); err != nil {
		return 0, "", "", nil, err
	}

	// Parse header
	requestID := binary.BigEndian.Uint64(buf[:8])
	actorLength := int(binary.BigEndian.Uint16(buf[8:10]))
	opLength := int(binary.BigEndian.Uint16(buf[10:12]))
	contentLength := int(binary.BigEndian.Uint32(buf[12:16]))

	total := actorLength + opLength + contentLength

	// If the frame carries nothing beyond the header, return early
	if total == 0 {
		return requestID, "", "", []byte{}, nil
	}

	// Check if buffer is large enough for the body
	if len(buf) < total {
		buf = make([]byte, total)
	}

	// Read body
	if _, err := io.ReadFull(conn, buf[:total]); err != nil {
		return 0, "", "", nil, err
	}

	// The actor and operation are copied out of the shared buffer, the payload
	// is returned as a slice of it
	actor := string(buf[:actorLength])
	op := string(buf[actorLength : actorLength+opLength])
	data := buf[actorLength+opLength : total]

	return requestID, actor, op, data, nil
}
