package host

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Sum-typed nodes are encoded as [kind, head..., payload] arrays so that the
// payload can be decoded into the right variant struct.

func encodeTagged(enc *msgpack.Encoder, kind uint8, fields ...any) error {
	if err := enc.EncodeArrayLen(len(fields) + 1); err != nil {
		return err
	}
	if err := enc.EncodeUint8(kind); err != nil {
		return err
	}
	for _, f := range fields {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}

func decodeHeader(dec *msgpack.Decoder, want int, what string) (uint8, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	if n != want {
		return 0, fmt.Errorf("%s: expected %d elements, got %d", what, want, n)
	}
	return dec.DecodeUint8()
}

func decodePayload(dec *msgpack.Decoder, data any, kind uint8, what string) error {
	if data == nil {
		return fmt.Errorf("%s: unknown kind %d", what, kind)
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("%s payload: %w", what, err)
	}
	return nil
}

func (e Expr) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeTagged(enc, uint8(e.Kind), e.Ty, e.Span, e.Data)
}

func (e *Expr) DecodeMsgpack(dec *msgpack.Decoder) error {
	k, err := decodeHeader(dec, 4, "expr")
	if err != nil {
		return err
	}
	e.Kind = ExprKind(k)
	if err := dec.Decode(&e.Ty); err != nil {
		return err
	}
	if err := dec.Decode(&e.Span); err != nil {
		return err
	}
	data := NewExprData(e.Kind)
	if err := decodePayload(dec, data, k, "expr"); err != nil {
		return err
	}
	e.Data = data
	return nil
}

func (s Stmt) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeTagged(enc, uint8(s.Kind), s.Span, s.Data)
}

func (s *Stmt) DecodeMsgpack(dec *msgpack.Decoder) error {
	k, err := decodeHeader(dec, 3, "stmt")
	if err != nil {
		return err
	}
	s.Kind = StmtKind(k)
	if err := dec.Decode(&s.Span); err != nil {
		return err
	}
	data := NewStmtData(s.Kind)
	if err := decodePayload(dec, data, k, "stmt"); err != nil {
		return err
	}
	s.Data = data
	return nil
}

func (p Pat) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeTagged(enc, uint8(p.Kind), p.Ty, p.Span, p.Data)
}

func (p *Pat) DecodeMsgpack(dec *msgpack.Decoder) error {
	k, err := decodeHeader(dec, 4, "pat")
	if err != nil {
		return err
	}
	p.Kind = PatKind(k)
	if err := dec.Decode(&p.Ty); err != nil {
		return err
	}
	if err := dec.Decode(&p.Span); err != nil {
		return err
	}
	data := NewPatData(p.Kind)
	if err := decodePayload(dec, data, k, "pat"); err != nil {
		return err
	}
	p.Data = data
	return nil
}

func (it Item) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeTagged(enc, uint8(it.Kind), it.Def, it.Name, it.Span, it.Vis, it.Data)
}

func (it *Item) DecodeMsgpack(dec *msgpack.Decoder) error {
	k, err := decodeHeader(dec, 6, "item")
	if err != nil {
		return err
	}
	it.Kind = ItemKind(k)
	for _, dst := range []any{&it.Def, &it.Name, &it.Span, &it.Vis} {
		if err := dec.Decode(dst); err != nil {
			return err
		}
	}
	data := NewItemData(it.Kind)
	if err := decodePayload(dec, data, k, "item"); err != nil {
		return err
	}
	it.Data = data
	return nil
}

func (t Ty) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeTagged(enc, uint8(t.Kind), t.Data)
}

func (t *Ty) DecodeMsgpack(dec *msgpack.Decoder) error {
	k, err := decodeHeader(dec, 2, "ty")
	if err != nil {
		return err
	}
	t.Kind = TyKind(k)
	data := NewTyData(t.Kind)
	if err := decodePayload(dec, data, k, "ty"); err != nil {
		return err
	}
	t.Data = data
	return nil
}

func (c Const) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeTagged(enc, uint8(c.Kind), c.Ty, c.Data)
}

func (c *Const) DecodeMsgpack(dec *msgpack.Decoder) error {
	k, err := decodeHeader(dec, 3, "const")
	if err != nil {
		return err
	}
	c.Kind = ConstKind(k)
	if err := dec.Decode(&c.Ty); err != nil {
		return err
	}
	if c.Kind == 0 {
		// zero Const (type arguments carry one); payload is nil
		c.Data = nil
		return dec.Skip()
	}
	data := NewConstData(c.Kind)
	if err := decodePayload(dec, data, k, "const"); err != nil {
		return err
	}
	c.Data = data
	return nil
}
