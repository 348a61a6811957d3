package cipher

import "fmt"

// QQ 音乐歌词接口使用的不是标准 DES：它的 S 盒有两处和标准表不同，
// 标准库 crypto/des 的输出对不上，只能按抓包实现逐位移植。

const (
	desModeEncrypt = 1
	desModeDecrypt = 0
)

var desSBox = [8][64]byte{
	{
		14, 4, 13, 1, 2, 15, 11, 8, 3, 10, 6, 12, 5, 9, 0, 7,
		0, 15, 7, 4, 14, 2, 13, 1, 10, 6, 12, 11, 9, 5, 3, 8,
		4, 1, 14, 8, 13, 6, 2, 11, 15, 12, 9, 7, 3, 10, 5, 0,
		15, 12, 8, 2, 4, 9, 1, 7, 5, 11, 3, 14, 10, 0, 6, 13,
	},
	{
		15, 1, 8, 14, 6, 11, 3, 4, 9, 7, 2, 13, 12, 0, 5, 10,
		3, 13, 4, 7, 15, 2, 8, 15, 12, 0, 1, 10, 6, 9, 11, 5,
		0, 14, 7, 11, 10, 4, 13, 1, 5, 8, 12, 6, 9, 3, 2, 15,
		13, 8, 10, 1, 3, 15, 4, 2, 11, 6, 7, 12, 0, 5, 14, 9,
	},
	{
		10, 0, 9, 14, 6, 3, 15, 5, 1, 13, 12, 7, 11, 4, 2, 8,
		13, 7, 0, 9, 3, 4, 6, 10, 2, 8, 5, 14, 12, 11, 15, 1,
		13, 6, 4, 9, 8, 15, 3, 0, 11, 1, 2, 12, 5, 10, 14, 7,
		1, 10, 13, 0, 6, 9, 8, 7, 4, 15, 14, 3, 11, 5, 2, 12,
	},
	{
		7, 13, 14, 3, 0, 6, 9, 10, 1, 2, 8, 5, 11, 12, 4, 15,
		13, 8, 11, 5, 6, 15, 0, 3, 4, 7, 2, 12, 1, 10, 14, 9,
		10, 6, 9, 0, 12, 11, 7, 13, 15, 1, 3, 14, 5, 2, 8, 4,
		3, 15, 0, 6, 10, 10, 13, 8, 9, 4, 5, 11, 12, 7, 2, 14,
	},
	{
		2, 12, 4, 1, 7, 10, 11, 6, 8, 5, 3, 15, 13, 0, 14, 9,
		14, 11, 2, 12, 4, 7, 13, 1, 5, 0, 15, 10, 3, 9, 8, 6,
		4, 2, 1, 11, 10, 13, 7, 8, 15, 9, 12, 5, 6, 3, 0, 14,
		11, 8, 12, 7, 1, 14, 2, 13, 6, 15, 0, 9, 10, 4, 5, 3,
	},
	{
		12, 1, 10, 15, 9, 2, 6, 8, 0, 13, 3, 4, 14, 7, 5, 11,
		10, 15, 4, 2, 7, 12, 9, 5, 6, 1, 13, 14, 0, 11, 3, 8,
		9, 14, 15, 5, 2, 8, 12, 3, 7, 0, 4, 10, 1, 13, 11, 6,
		4, 3, 2, 12, 9, 5, 15, 10, 11, 14, 1, 7, 6, 0, 8, 13,
	},
	{
		4, 11, 2, 14, 15, 0, 8, 13, 3, 12, 9, 7, 5, 10, 6, 1,
		13, 0, 11, 7, 4, 9, 1, 10, 14, 3, 5, 12, 2, 15, 8, 6,
		1, 4, 11, 13, 12, 3, 7, 14, 10, 15, 6, 8, 0, 5, 9, 2,
		6, 11, 13, 8, 1, 4, 10, 7, 9, 5, 0, 15, 14, 2, 3, 12,
	},
	{
		13, 2, 8, 4, 6, 15, 11, 1, 10, 9, 3, 14, 5, 0, 12, 7,
		1, 15, 13, 8, 10, 3, 7, 4, 12, 5, 6, 11, 0, 14, 9, 2,
		7, 11, 4, 1, 9, 12, 14, 2, 0, 6, 10, 13, 15, 3, 5, 8,
		2, 1, 14, 7, 4, 10, 8, 13, 15, 12, 9, 0, 3, 5, 6, 11,
	},
}

type desSubkeys [16][6]byte

func bitnum(a []byte, b, c uint) uint32 {
	return uint32((a[b/32*4+3-b%32/8]>>(7-(b%8)))&0x01) << c
}

func bitnumIntr(a uint32, b, c uint) byte {
	return byte(((a >> (31 - b)) & 0x00000001) << c)
}

func bitnumIntl(a uint32, b, c uint) uint32 {
	return ((a << b) & 0x80000000) >> c
}

func sboxBit(a byte) byte {
	return (a & 0x20) | ((a & 0x1f) >> 1) | ((a & 0x01) << 4)
}

func desKeySchedule(key []byte, schedule *desSubkeys, mode int) {
	keyRndShift := [16]uint{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}
	keyPermC := [28]uint{
		56, 48, 40, 32, 24, 16, 8, 0, 57, 49, 41, 33, 25, 17,
		9, 1, 58, 50, 42, 34, 26, 18, 10, 2, 59, 51, 43, 35,
	}
	keyPermD := [28]uint{
		62, 54, 46, 38, 30, 22, 14, 6, 61, 53, 45, 37, 29, 21,
		13, 5, 60, 52, 44, 36, 28, 20, 12, 4, 27, 19, 11, 3,
	}
	keyCompression := [48]uint{
		13, 16, 10, 23, 0, 4, 2, 27, 14, 5, 20, 9,
		22, 18, 11, 3, 25, 7, 15, 6, 26, 19, 12, 1,
		40, 51, 30, 36, 46, 54, 29, 39, 50, 44, 32, 47,
		43, 48, 38, 55, 33, 52, 45, 41, 49, 35, 28, 31,
	}

	var c, d uint32
	for i := uint(0); i < 28; i++ {
		c |= bitnum(key, keyPermC[i], 31-i)
		d |= bitnum(key, keyPermD[i], 31-i)
	}

	for i := 0; i < 16; i++ {
		shift := keyRndShift[i]
		c = ((c << shift) | (c >> (28 - shift))) & 0xfffffff0
		d = ((d << shift) | (d >> (28 - shift))) & 0xfffffff0

		toGen := i
		if mode == desModeDecrypt {
			toGen = 15 - i
		}
		for j := range schedule[toGen] {
			schedule[toGen][j] = 0
		}
		for j := uint(0); j < 24; j++ {
			schedule[toGen][j/8] |= bitnumIntr(c, keyCompression[j], 7-(j%8))
		}
		for j := uint(24); j < 48; j++ {
			schedule[toGen][j/8] |= bitnumIntr(d, keyCompression[j]-27, 7-(j%8))
		}
	}
}

func desInitialPermutation(state *[2]uint32, input []byte) {
	fromS0 := [32]uint{
		57, 49, 41, 33, 25, 17, 9, 1, 59, 51, 43, 35, 27, 19, 11, 3,
		61, 53, 45, 37, 29, 21, 13, 5, 63, 55, 47, 39, 31, 23, 15, 7,
	}
	fromS1 := [32]uint{
		56, 48, 40, 32, 24, 16, 8, 0, 58, 50, 42, 34, 26, 18, 10, 2,
		60, 52, 44, 36, 28, 20, 12, 4, 62, 54, 46, 38, 30, 22, 14, 6,
	}
	state[0], state[1] = 0, 0
	for i := uint(0); i < 32; i++ {
		state[0] |= bitnum(input, fromS0[i], 31-i)
		state[1] |= bitnum(input, fromS1[i], 31-i)
	}
}

func desInversePermutation(state *[2]uint32, output []byte) {
	// 输出字节顺序 3,2,1,0,7,6,5,4，每个字节由两个半状态交错拼出
	for k := uint(0); k < 4; k++ {
		output[3-k] = bitnumIntr(state[1], 7-k, 7) | bitnumIntr(state[0], 7-k, 6) |
			bitnumIntr(state[1], 15-k, 5) | bitnumIntr(state[0], 15-k, 4) |
			bitnumIntr(state[1], 23-k, 3) | bitnumIntr(state[0], 23-k, 2) |
			bitnumIntr(state[1], 31-k, 1) | bitnumIntr(state[0], 31-k, 0)
		output[7-k] = bitnumIntr(state[1], 3-k, 7) | bitnumIntr(state[0], 3-k, 6) |
			bitnumIntr(state[1], 11-k, 5) | bitnumIntr(state[0], 11-k, 4) |
			bitnumIntr(state[1], 19-k, 3) | bitnumIntr(state[0], 19-k, 2) |
			bitnumIntr(state[1], 27-k, 1) | bitnumIntr(state[0], 27-k, 0)
	}
}

func desF(state uint32, key *[6]byte) uint32 {
	var lrgState [6]byte

	t1 := bitnumIntl(state, 31, 0) | ((state & 0xf0000000) >> 1) | bitnumIntl(state, 4, 5) |
		bitnumIntl(state, 3, 6) | ((state & 0x0f000000) >> 3) | bitnumIntl(state, 8, 11) |
		bitnumIntl(state, 7, 12) | ((state & 0x00f00000) >> 5) | bitnumIntl(state, 12, 17) |
		bitnumIntl(state, 11, 18) | ((state & 0x000f0000) >> 7) | bitnumIntl(state, 16, 23)

	t2 := bitnumIntl(state, 15, 0) | ((state & 0x0000f000) << 15) | bitnumIntl(state, 20, 5) |
		bitnumIntl(state, 19, 6) | ((state & 0x00000f00) << 13) | bitnumIntl(state, 24, 11) |
		bitnumIntl(state, 23, 12) | ((state & 0x000000f0) << 11) | bitnumIntl(state, 28, 17) |
		bitnumIntl(state, 27, 18) | ((state & 0x0000000f) << 9) | bitnumIntl(state, 0, 23)

	lrgState[0] = byte(t1 >> 24)
	lrgState[1] = byte(t1 >> 16)
	lrgState[2] = byte(t1 >> 8)
	lrgState[3] = byte(t2 >> 24)
	lrgState[4] = byte(t2 >> 16)
	lrgState[5] = byte(t2 >> 8)

	for i := range lrgState {
		lrgState[i] ^= key[i]
	}

	state = uint32(desSBox[0][sboxBit(lrgState[0]>>2)])<<28 |
		uint32(desSBox[1][sboxBit(((lrgState[0]&0x03)<<4)|(lrgState[1]>>4))])<<24 |
		uint32(desSBox[2][sboxBit(((lrgState[1]&0x0f)<<2)|(lrgState[2]>>6))])<<20 |
		uint32(desSBox[3][sboxBit(lrgState[2]&0x3f)])<<16 |
		uint32(desSBox[4][sboxBit(lrgState[3]>>2)])<<12 |
		uint32(desSBox[5][sboxBit(((lrgState[3]&0x03)<<4)|(lrgState[4]>>4))])<<8 |
		uint32(desSBox[6][sboxBit(((lrgState[4]&0x0f)<<2)|(lrgState[5]>>6))])<<4 |
		uint32(desSBox[7][sboxBit(lrgState[5]&0x3f)])

	pbox := [32][2]uint{
		{15, 0}, {6, 1}, {19, 2}, {20, 3}, {28, 4}, {11, 5}, {27, 6}, {16, 7},
		{0, 8}, {14, 9}, {22, 10}, {25, 11}, {4, 12}, {17, 13}, {30, 14}, {9, 15},
		{1, 16}, {7, 17}, {23, 18}, {13, 19}, {31, 20}, {26, 21}, {2, 22}, {8, 23},
		{18, 24}, {12, 25}, {29, 26}, {5, 27}, {21, 28}, {10, 29}, {3, 30}, {24, 31},
	}
	var out uint32
	for _, p := range pbox {
		out |= bitnumIntl(state, p[0], p[1])
	}
	return out
}

func desCrypt(input, output []byte, keys *desSubkeys) {
	var state [2]uint32
	desInitialPermutation(&state, input)

	for idx := 0; idx < 15; idx++ {
		t := state[1]
		state[1] = desF(state[1], &keys[idx]) ^ state[0]
		state[0] = t
	}
	state[0] = desF(state[1], &keys[15]) ^ state[0]

	desInversePermutation(&state, output)
}

type tripleDESSubkeys [3]desSubkeys

func tripleDESKeySetup(key []byte, schedule *tripleDESSubkeys, mode int) {
	if mode == desModeEncrypt {
		desKeySchedule(key[0:8], &schedule[0], mode)
		desKeySchedule(key[8:16], &schedule[1], desModeDecrypt)
		desKeySchedule(key[16:24], &schedule[2], mode)
	} else {
		desKeySchedule(key[0:8], &schedule[2], mode)
		desKeySchedule(key[8:16], &schedule[1], desModeEncrypt)
		desKeySchedule(key[16:24], &schedule[0], mode)
	}
}

func tripleDESCrypt(input, output []byte, schedule *tripleDESSubkeys) {
	var tmp [8]byte
	desCrypt(input, output, &schedule[0])
	copy(tmp[:], output)
	desCrypt(tmp[:], output, &schedule[1])
	copy(tmp[:], output)
	desCrypt(tmp[:], output, &schedule[2])
}

func tripleDESRun(data, key []byte, mode int) ([]byte, error) {
	if len(key) != 24 {
		return nil, &DecryptError{Stage: "3des", Err: fmt.Errorf("key must be 24 bytes, got %d", len(key))}
	}

	var schedule tripleDESSubkeys
	tripleDESKeySetup(key, &schedule, mode)

	out := make([]byte, (len(data)+7)/8*8)
	var block [8]byte
	for i := 0; i < len(data); i += 8 {
		for j := range block {
			block[j] = 0
		}
		copy(block[:], data[i:])
		tripleDESCrypt(block[:], out[i:i+8], &schedule)
	}
	// 末尾不足 8 字节的块按观察到的服务端约定截断回原长度
	return out[:len(data)], nil
}

// TripleDESDecrypt EDE 模式逐 8 字节块解密 (ECB 块序)。
func TripleDESDecrypt(data, key []byte) ([]byte, error) {
	return tripleDESRun(data, key, desModeDecrypt)
}

// TripleDESEncrypt 加密方向，主要用于构造测试夹具。
func TripleDESEncrypt(data, key []byte) ([]byte, error) {
	return tripleDESRun(data, key, desModeEncrypt)
}
