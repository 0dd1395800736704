// Package sectormgr lays fixed-width records onto a disk.Disk as chains of
// fragments, first-fitting each fragment into whatever free space the
// current sector layout offers and splicing fragments together with a
// 6-byte chain header.
package sectormgr

import (
	"encoding/binary"

	"diskvault/internal/disk"
	"diskvault/pkg/errors"

	"go.uber.org/zap"
)

// FragmentHeaderSize is the width, in bytes, of the header that precedes
// every fragment: a 2-byte fragment size, a 2-byte next-sector pointer,
// and a 2-byte next-offset pointer, all little-endian.
const FragmentHeaderSize = 6

// FragmentEnd is the sentinel value stored in both the next-sector and
// next-offset header fields to mark the final fragment of a chain.
const FragmentEnd uint16 = 0xFFFF

// Manager allocates sectors for, reads, and frees fragmented record chains.
type Manager struct {
	disk *disk.Disk
	log  *zap.SugaredLogger
}

// Config encapsulates the parameters required to initialize a Manager.
type Config struct {
	Disk   *disk.Disk
	Logger *zap.SugaredLogger
}

// New creates a Manager bound to the given disk.
func New(config *Config) (*Manager, error) {
	if config == nil || config.Disk == nil || config.Logger == nil {
		return nil, errors.NewConfigurationValidationError("config", "sector manager requires a disk and a logger")
	}
	return &Manager{disk: config.Disk, log: config.Logger}, nil
}

type fragmentHeader struct {
	size       uint16
	nextSector uint16
	nextOffset uint16
}

func packFragmentHeader(h fragmentHeader) []byte {
	buf := make([]byte, FragmentHeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.size)
	binary.LittleEndian.PutUint16(buf[2:4], h.nextSector)
	binary.LittleEndian.PutUint16(buf[4:6], h.nextOffset)
	return buf
}

func unpackFragmentHeader(buf []byte) fragmentHeader {
	return fragmentHeader{
		size:       binary.LittleEndian.Uint16(buf[0:2]),
		nextSector: binary.LittleEndian.Uint16(buf[2:4]),
		nextOffset: binary.LittleEndian.Uint16(buf[4:6]),
	}
}

func isZeroWindow(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// freeCursor scans sector's occupied fragments from the start, returning
// the byte offset at which the sector's free space begins: either the
// first all-zero header window, or the end of the sector if every byte is
// already claimed by a fragment.
func (m *Manager) freeCursor(sector int) (int, error) {
	buf := make([]byte, m.disk.SectorSize())
	if _, err := m.disk.ReadAt(buf, int64(sector)*int64(m.disk.SectorSize())); err != nil {
		return 0, err
	}

	offset := 0
	for offset+FragmentHeaderSize <= len(buf) {
		header := buf[offset : offset+FragmentHeaderSize]
		if isZeroWindow(header) {
			break
		}
		h := unpackFragmentHeader(header)
		offset += FragmentHeaderSize + int(h.size)
	}
	return offset, nil
}

// placement describes a spot found for the next fragment of a record being
// written: the sector and in-sector offset to write at, plus how many
// bytes remain free in that sector from that offset onward.
type placement struct {
	sector    int
	offset    int
	remaining int
}

// findFreeSpace locates where the next fragment of a record of the given
// remaining size should go. It scans every sector once, returning the first
// sector with enough room to hold the entire remainder in one fragment, and
// only if none exists, falling back to the first sector it saw with room
// for a header plus at least one byte of payload.
func (m *Manager) findFreeSpace(remaining int) (placement, error) {
	total := m.disk.TotalSectors()
	sectorSize := m.disk.SectorSize()

	var partial *placement

	for sector := 0; sector < total; sector++ {
		offset, err := m.freeCursor(sector)
		if err != nil {
			return placement{}, err
		}
		space := sectorSize - offset
		if space < FragmentHeaderSize {
			continue
		}

		if space >= FragmentHeaderSize+remaining {
			return placement{sector: sector, offset: offset, remaining: space}, nil
		}
		if partial == nil && space > FragmentHeaderSize {
			p := placement{sector: sector, offset: offset, remaining: space}
			partial = &p
		}
	}

	if partial != nil {
		return *partial, nil
	}
	return placement{}, errors.NewOutOfSpaceError(remaining)
}

// WriteRecord lays data onto the disk as a chain of one or more fragments,
// returning the sector and offset of the chain's first fragment. Fragments
// are written in placement order: each fragment's header is written with
// the end-of-chain sentinel as its next-pointer, together with its payload,
// and only once the following fragment has been written is the previous
// fragment's header backpatched with the real pointer. This ordering means
// a write cut short mid-chain leaves a chain that terminates cleanly at the
// last fragment already linked into it, never one that points at an
// unwritten location.
func (m *Manager) WriteRecord(data []byte) (int, int, error) {
	total := len(data)
	written := 0

	firstSector, firstOffset := -1, -1
	prevSector, prevOffset := -1, -1

	for written < total {
		remaining := total - written
		p, err := m.findFreeSpace(remaining)
		if err != nil {
			return 0, 0, err
		}

		maxFragment := p.remaining - FragmentHeaderSize
		fragmentSize := remaining
		if fragmentSize > maxFragment {
			fragmentSize = maxFragment
		}

		// Every fragment starts out as a chain end; a non-final fragment's
		// pointer is backpatched once the following fragment is placed.
		header := fragmentHeader{size: uint16(fragmentSize), nextSector: FragmentEnd, nextOffset: FragmentEnd}

		sectorSize := int64(m.disk.SectorSize())
		pos := int64(p.sector)*sectorSize + int64(p.offset)

		buf := append(packFragmentHeader(header), data[written:written+fragmentSize]...)
		if _, err := m.disk.WriteAt(buf, pos); err != nil {
			return 0, 0, err
		}
		if err := m.disk.MarkFragmentPlaced(p.sector); err != nil {
			return 0, 0, err
		}

		if firstSector == -1 {
			firstSector, firstOffset = p.sector, p.offset
		}
		if prevSector != -1 {
			nextPtr := make([]byte, 4)
			binary.LittleEndian.PutUint16(nextPtr[0:2], uint16(p.sector))
			binary.LittleEndian.PutUint16(nextPtr[2:4], uint16(p.offset))
			prevPos := int64(prevSector)*sectorSize + int64(prevOffset) + 2
			if _, err := m.disk.WriteAt(nextPtr, prevPos); err != nil {
				return 0, 0, err
			}
		}

		prevSector, prevOffset = p.sector, p.offset
		written += fragmentSize
	}

	return firstSector, firstOffset, nil
}

// ReadRecord walks the fragment chain starting at (sector, offset) and
// returns the concatenated payload. A header read that comes back short
// (fewer than FragmentHeaderSize bytes, which should only happen at the
// very edge of the backing file) ends the walk gracefully rather than
// returning an error, on the assumption that whatever was read so far is
// the complete record.
func (m *Manager) ReadRecord(sector, offset int) ([]byte, error) {
	var result []byte
	sectorSize := int64(m.disk.SectorSize())

	for {
		pos := int64(sector)*sectorSize + int64(offset)
		headerBuf := make([]byte, FragmentHeaderSize)
		n, err := m.disk.ReadAt(headerBuf, pos)
		if err != nil && n < FragmentHeaderSize {
			break
		}

		h := unpackFragmentHeader(headerBuf)
		fragBuf := make([]byte, h.size)
		if h.size > 0 {
			if _, err := m.disk.ReadAt(fragBuf, pos+FragmentHeaderSize); err != nil {
				return nil, err
			}
		}
		result = append(result, fragBuf...)

		if h.nextSector == FragmentEnd && h.nextOffset == FragmentEnd {
			break
		}
		sector, offset = int(h.nextSector), int(h.nextOffset)
	}

	return result, nil
}

// Free walks the fragment chain starting at (sector, offset), zeroing each
// fragment's header-and-payload window and dropping its sector's fragment
// count by one; a sector returns to the free pool once its count reaches
// zero.
func (m *Manager) Free(sector, offset int) error {
	sectorSize := int64(m.disk.SectorSize())

	for {
		pos := int64(sector)*sectorSize + int64(offset)
		headerBuf := make([]byte, FragmentHeaderSize)
		n, err := m.disk.ReadAt(headerBuf, pos)
		if err != nil && n < FragmentHeaderSize {
			break
		}

		h := unpackFragmentHeader(headerBuf)
		zero := make([]byte, FragmentHeaderSize+int(h.size))
		if _, err := m.disk.WriteAt(zero, pos); err != nil {
			return err
		}
		if err := m.disk.MarkFragmentFreed(sector); err != nil {
			return err
		}

		if h.nextSector == FragmentEnd && h.nextOffset == FragmentEnd {
			break
		}
		sector, offset = int(h.nextSector), int(h.nextOffset)
	}

	return nil
}
