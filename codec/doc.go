// Package codec reads and writes the primitive values carried in OpenVario
// frame payloads.
//
// All multi-byte integers and floats are little-endian. Strings carry a
// 1-byte length prefix followed by UTF-8 bytes. Readers take a buffer and a
// cursor and return the value with the advanced cursor:
//
//	name, off, err := codec.ReadString(payload, 0)
//	size, off, err := codec.ReadUint(payload, off, 4)
//
// Decoder wraps the same readers for sequential decoding of one payload.
//
// # Flight Entries
//
// Flight data pages pack a variable number of FlightEntrySize-byte entries
// back to back. ReadFlightEntry reports the end of a page as ErrEndOfEntries,
// which callers use as the loop terminator:
//
//	for {
//	    e, err := d.FlightEntry()
//	    if errors.Is(err, codec.ErrEndOfEntries) {
//	        break
//	    }
//	    entries = append(entries, e)
//	}
package codec
