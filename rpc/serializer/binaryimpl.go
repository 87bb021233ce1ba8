package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/kvgate/kvgate/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() ISerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements ISerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey    uint16 = 1 << 0
	hasValue  uint16 = 1 << 1
	hasKeys   uint16 = 1 << 2
	hasDelta  uint16 = 1 << 3
	hasStart  uint16 = 1 << 4
	hasStop   uint16 = 1 << 5
	hasModule uint16 = 1 << 6
	hasParams uint16 = 1 << 7
	hasValues uint16 = 1 << 8
	hasCount  uint16 = 1 << 9
	hasExists uint16 = 1 << 10
	hasErr    uint16 = 1 << 11
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write operation code
	result[0] = byte(msg.Op)

	// Initialize flags
	var flags uint16 = 0

	// Set position for writing
	pos := 3 // Start after Op and flags

	// writeString appends a length-prefixed string
	writeString := func(s string) {
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(s)))
		pos += 4
		copy(result[pos:pos+len(s)], s)
		pos += len(s)
	}

	// writeStrings appends a count-prefixed list of length-prefixed strings
	writeStrings := func(values []string) {
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(values)))
		pos += 4
		for _, v := range values {
			writeString(v)
		}
	}

	// writeInt32 appends an int32
	writeInt32 := func(v int32) {
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(v))
		pos += 4
	}

	// Handle Key
	if msg.Key != "" {
		flags |= hasKey
		writeString(msg.Key)
	}

	// Handle Value
	if msg.Value != "" {
		flags |= hasValue
		writeString(msg.Value)
	}

	// Handle Keys
	if msg.Keys != nil {
		flags |= hasKeys
		writeStrings(msg.Keys)
	}

	// Handle Delta
	if msg.Delta != 0 {
		flags |= hasDelta
		writeInt32(msg.Delta)
	}

	// Handle Start
	if msg.Start != 0 {
		flags |= hasStart
		writeInt32(msg.Start)
	}

	// Handle Stop
	if msg.Stop != 0 {
		flags |= hasStop
		writeInt32(msg.Stop)
	}

	// Handle Module
	if msg.Module != "" {
		flags |= hasModule
		writeString(msg.Module)
	}

	// Handle Params
	if msg.Params != nil {
		flags |= hasParams
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Params)))
		pos += 4
		for k, v := range msg.Params {
			writeString(k)
			writeString(v)
		}
	}

	// Handle Values
	if msg.Values != nil {
		flags |= hasValues
		writeStrings(msg.Values)
	}

	// Handle Count
	if msg.Count != 0 {
		flags |= hasCount
		writeInt32(msg.Count)
	}

	// Handle Exists
	if msg.Exists {
		flags |= hasExists
		result[pos] = 1
		pos += 1
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		writeString(msg.Err)
	}

	// Set flags after knowing which fields are present
	binary.BigEndian.PutUint16(result[1:3], flags)

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (Op + flags)
	if len(data) < 3 {
		return fmt.Errorf("data too short for message header")
	}

	// Read operation code
	msg.Op = common.OpCode(data[0])

	// Read flags
	flags := binary.BigEndian.Uint16(data[1:3])

	// Initialize read position
	pos := 3

	// readString reads a length-prefixed string
	readString := func(field string) (string, error) {
		if pos+4 > len(data) {
			return "", fmt.Errorf("data too short for %s length", field)
		}
		length := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		if pos+int(length) > len(data) {
			return "", fmt.Errorf("data too short for %s data", field)
		}
		s := string(data[pos : pos+int(length)])
		pos += int(length)
		return s, nil
	}

	// readStrings reads a count-prefixed list of length-prefixed strings
	readStrings := func(field string) ([]string, error) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("data too short for %s count", field)
		}
		count := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		// each element carries at least a 4 byte length prefix, so a count
		// that cannot fit in the remaining bytes is rejected before the
		// allocation sized from it
		if uint64(count)*4 > uint64(len(data)-pos) {
			return nil, fmt.Errorf("data too short for %s count %d", field, count)
		}
		values := make([]string, 0, count)
		for i := uint32(0); i < count; i++ {
			v, err := readString(field)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}

	// readInt32 reads an int32
	readInt32 := func(field string) (int32, error) {
		if pos+4 > len(data) {
			return 0, fmt.Errorf("data too short for %s", field)
		}
		v := int32(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		return v, nil
	}

	var err error

	// Read Key if present
	if flags&hasKey != 0 {
		if msg.Key, err = readString("key"); err != nil {
			return err
		}
	} else {
		msg.Key = ""
	}

	// Read Value if present
	if flags&hasValue != 0 {
		if msg.Value, err = readString("value"); err != nil {
			return err
		}
	} else {
		msg.Value = ""
	}

	// Read Keys if present
	if flags&hasKeys != 0 {
		if msg.Keys, err = readStrings("keys"); err != nil {
			return err
		}
	} else {
		msg.Keys = nil
	}

	// Read Delta if present
	if flags&hasDelta != 0 {
		if msg.Delta, err = readInt32("delta"); err != nil {
			return err
		}
	} else {
		msg.Delta = 0
	}

	// Read Start if present
	if flags&hasStart != 0 {
		if msg.Start, err = readInt32("start"); err != nil {
			return err
		}
	} else {
		msg.Start = 0
	}

	// Read Stop if present
	if flags&hasStop != 0 {
		if msg.Stop, err = readInt32("stop"); err != nil {
			return err
		}
	} else {
		msg.Stop = 0
	}

	// Read Module if present
	if flags&hasModule != 0 {
		if msg.Module, err = readString("module"); err != nil {
			return err
		}
	} else {
		msg.Module = ""
	}

	// Read Params if present
	if flags&hasParams != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for params count")
		}
		count := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
		// every entry needs at least two 4 byte length prefixes
		if uint64(count)*8 > uint64(len(data)-pos) {
			return fmt.Errorf("data too short for params count %d", count)
		}
		msg.Params = make(map[string]string, count)
		for i := uint32(0); i < count; i++ {
			k, err := readString("param key")
			if err != nil {
				return err
			}
			v, err := readString("param value")
			if err != nil {
				return err
			}
			msg.Params[k] = v
		}
	} else {
		msg.Params = nil
	}

	// Read Values if present
	if flags&hasValues != 0 {
		if msg.Values, err = readStrings("values"); err != nil {
			return err
		}
	} else {
		msg.Values = nil
	}

	// Read Count if present
	if flags&hasCount != 0 {
		if msg.Count, err = readInt32("count"); err != nil {
			return err
		}
	} else {
		msg.Count = 0
	}

	// Read Exists if present
	if flags&hasExists != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for exists flag")
		}
		msg.Exists = data[pos] != 0
		pos += 1
	} else {
		msg.Exists = false
	}

	// Read Err if present
	if flags&hasErr != 0 {
		if msg.Err, err = readString("error"); err != nil {
			return err
		}
	} else {
		msg.Err = ""
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for Op + 2 bytes for flags
	size := 3

	// Add sizes for fields that require length encoding
	if msg.Key != "" {
		size += 4 + len(msg.Key)
	}
	if msg.Value != "" {
		size += 4 + len(msg.Value)
	}
	if msg.Keys != nil {
		size += 4
		for _, v := range msg.Keys {
			size += 4 + len(v)
		}
	}
	if msg.Delta != 0 {
		size += 4
	}
	if msg.Start != 0 {
		size += 4
	}
	if msg.Stop != 0 {
		size += 4
	}
	if msg.Module != "" {
		size += 4 + len(msg.Module)
	}
	if msg.Params != nil {
		size += 4
		for k, v := range msg.Params {
			size += 4 + len(k) + 4 + len(v)
		}
	}
	if msg.Values != nil {
		size += 4
		for _, v := range msg.Values {
			size += 4 + len(v)
		}
	}
	if msg.Count != 0 {
		size += 4
	}
	if msg.Exists {
		size += 1
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}

	return size
}
