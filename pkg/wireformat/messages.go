package wireformat

import "bytes"

// Handshake is the first frame exchanged on every session.
type Handshake struct {
	Version uint32
}

func (m *Handshake) Tag() Tag { return TagHandshake }
func (m *Handshake) encode(buf *bytes.Buffer) {
	writeUint32(buf, m.Version)
}
func decodeHandshake(r *bytes.Reader) (*Handshake, error) {
	v, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	return &Handshake{Version: v}, nil
}

// FileRequest asks the responder to send a whole file.
type FileRequest struct {
	Path string
}

func (m *FileRequest) Tag() Tag { return TagFileRequest }
func (m *FileRequest) encode(buf *bytes.Buffer) {
	writeString(buf, m.Path)
}
func decodeFileRequest(r *bytes.Reader) (*FileRequest, error) {
	p, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &FileRequest{Path: p}, nil
}

// FileData carries a whole (or, for future streaming, partial) file.
type FileData struct {
	Path   string
	Data   []byte
	Offset uint64
	IsLast bool
}

func (m *FileData) Tag() Tag { return TagFileData }
func (m *FileData) encode(buf *bytes.Buffer) {
	writeString(buf, m.Path)
	writeBytes(buf, m.Data)
	writeUint64(buf, m.Offset)
	writeBool(buf, m.IsLast)
}
func decodeFileData(r *bytes.Reader) (*FileData, error) {
	path, err := readString(r)
	if err != nil {
		return nil, err
	}
	data, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	offset, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	isLast, err := readBool(r)
	if err != nil {
		return nil, err
	}
	return &FileData{Path: path, Data: data, Offset: offset, IsLast: isLast}, nil
}

// FileSignature carries the receiver's current block signature for a path.
type FileSignature struct {
	Path      string
	Signature []byte
}

func (m *FileSignature) Tag() Tag { return TagFileSignature }
func (m *FileSignature) encode(buf *bytes.Buffer) {
	writeString(buf, m.Path)
	writeBytes(buf, m.Signature)
}
func decodeFileSignature(r *bytes.Reader) (*FileSignature, error) {
	path, err := readString(r)
	if err != nil {
		return nil, err
	}
	sig, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	return &FileSignature{Path: path, Signature: sig}, nil
}

// FileDelta carries a computed delta for a path.
type FileDelta struct {
	Path  string
	Delta []byte
}

func (m *FileDelta) Tag() Tag { return TagFileDelta }
func (m *FileDelta) encode(buf *bytes.Buffer) {
	writeString(buf, m.Path)
	writeBytes(buf, m.Delta)
}
func decodeFileDelta(r *bytes.Reader) (*FileDelta, error) {
	path, err := readString(r)
	if err != nil {
		return nil, err
	}
	delta, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	return &FileDelta{Path: path, Delta: delta}, nil
}

// ListRequest asks the responder to recursively list a directory.
type ListRequest struct {
	Path string
}

func (m *ListRequest) Tag() Tag { return TagListRequest }
func (m *ListRequest) encode(buf *bytes.Buffer) {
	writeString(buf, m.Path)
}
func decodeListRequest(r *bytes.Reader) (*ListRequest, error) {
	p, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &ListRequest{Path: p}, nil
}

// FileMetadata describes one entry in a ListResponse, relative to the
// requested root (forward-slash joined).
type FileMetadata struct {
	Path     string
	Len      uint64
	Modified uint64
	IsDir    bool
}

func (fm *FileMetadata) encode(buf *bytes.Buffer) {
	writeString(buf, fm.Path)
	writeUint64(buf, fm.Len)
	writeUint64(buf, fm.Modified)
	writeBool(buf, fm.IsDir)
}

func decodeFileMetadata(r *bytes.Reader) (FileMetadata, error) {
	path, err := readString(r)
	if err != nil {
		return FileMetadata{}, err
	}
	length, err := readUint64(r)
	if err != nil {
		return FileMetadata{}, err
	}
	modified, err := readUint64(r)
	if err != nil {
		return FileMetadata{}, err
	}
	isDir, err := readBool(r)
	if err != nil {
		return FileMetadata{}, err
	}
	return FileMetadata{Path: path, Len: length, Modified: modified, IsDir: isDir}, nil
}

// ListResponse carries a recursive directory listing.
type ListResponse struct {
	Files []FileMetadata
}

func (m *ListResponse) Tag() Tag { return TagListResponse }
func (m *ListResponse) encode(buf *bytes.Buffer) {
	writeUint32(buf, uint32(len(m.Files)))
	for _, fm := range m.Files {
		fm.encode(buf)
	}
}
func decodeListResponse(r *bytes.Reader) (*ListResponse, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	files := make([]FileMetadata, 0, count)
	for i := uint32(0); i < count; i++ {
		fm, err := decodeFileMetadata(r)
		if err != nil {
			return nil, err
		}
		files = append(files, fm)
	}
	return &ListResponse{Files: files}, nil
}

// FileUpdateNotification tells the peer that a path it is watching on our
// behalf has changed, prompting it to pull a fresh copy.
type FileUpdateNotification struct {
	Path string
}

func (m *FileUpdateNotification) Tag() Tag { return TagFileUpdateNotification }
func (m *FileUpdateNotification) encode(buf *bytes.Buffer) {
	writeString(buf, m.Path)
}
func decodeFileUpdateNotification(r *bytes.Reader) (*FileUpdateNotification, error) {
	p, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &FileUpdateNotification{Path: p}, nil
}

// StartSync requests that the responder register a reverse-sync watch so
// the sender receives future FileUpdateNotification frames for path.
type StartSync struct {
	Path string
}

func (m *StartSync) Tag() Tag { return TagStartSync }
func (m *StartSync) encode(buf *bytes.Buffer) {
	writeString(buf, m.Path)
}
func decodeStartSync(r *bytes.Reader) (*StartSync, error) {
	p, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &StartSync{Path: p}, nil
}

// ErrorMsg carries a diagnostic message in reply to a failed request.
type ErrorMsg struct {
	Message string
}

func (m *ErrorMsg) Tag() Tag { return TagError }
func (m *ErrorMsg) encode(buf *bytes.Buffer) {
	writeString(buf, m.Message)
}
func decodeErrorMsg(r *bytes.Reader) (*ErrorMsg, error) {
	msg, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &ErrorMsg{Message: msg}, nil
}
