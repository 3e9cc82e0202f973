package engine

import vb "variant-engine/varboard"

// Evaluation parameters. Every table with a leading [vb.VariantNB] dimension
// is indexed by the position's variant; the row order follows the Variant
// enum. Variants whose rows are all zero (Anti, Extinction, Race in the
// king-attack tables) never use them: Anti and Extinction build no king ring,
// and Race pieces add their zero KingAttackWeights while being scored, but
// those totals are read only by evaluateKing, which Race skips.

// MobilityBonus[variant][PieceType-2][attacked] contains bonuses for middle
// and end game, indexed by piece type and number of attacked squares in the
// mobility area.
var MobilityBonus = [vb.VariantNB][4][28]Score{
	vb.Standard: {
		{S(-75, -76), S(-57, -54), S(-9, -28), S(-2, -10), S(6, 5), S(14, 12), // Knights
			S(22, 26), S(29, 29), S(36, 29)},
		{S(-48, -59), S(-20, -23), S(16, -3), S(26, 13), S(38, 24), S(51, 42), // Bishops
			S(55, 54), S(63, 57), S(63, 65), S(68, 73), S(81, 78), S(81, 86),
			S(91, 88), S(98, 97)},
		{S(-58, -76), S(-27, -18), S(-15, 28), S(-10, 55), S(-5, 69), S(-2, 82), // Rooks
			S(9, 112), S(16, 118), S(30, 132), S(29, 142), S(32, 155), S(38, 165),
			S(46, 166), S(48, 169), S(58, 171)},
		{S(-39, -36), S(-21, -15), S(3, 8), S(3, 18), S(14, 34), S(22, 54), // Queens
			S(28, 61), S(41, 73), S(43, 79), S(48, 92), S(56, 94), S(60, 104),
			S(60, 113), S(66, 120), S(67, 123), S(70, 126), S(71, 133), S(73, 136),
			S(79, 140), S(88, 143), S(88, 148), S(99, 166), S(102, 170), S(102, 175),
			S(106, 184), S(109, 191), S(113, 206), S(116, 212)},
	},
	vb.Anti: {
		{S(-150, -152), S(-112, -108), S(-18, -52), S(-4, -20), S(12, 10), S(30, 22),
			S(44, 52), S(60, 56), S(72, 58)},
		{S(-96, -116), S(-42, -38), S(32, -4), S(52, 24), S(74, 44), S(102, 84),
			S(108, 108), S(126, 116), S(130, 126), S(142, 140), S(158, 148), S(162, 172),
			S(184, 180), S(194, 188)},
		{S(-112, -156), S(-50, -36), S(-22, 52), S(-10, 110), S(-8, 140), S(-2, 162),
			S(16, 218), S(28, 240), S(42, 256), S(46, 286), S(62, 308), S(64, 320),
			S(86, 330), S(98, 336), S(118, 338)},
		{S(-80, -70), S(-50, -24), S(4, 14), S(8, 38), S(28, 74), S(48, 110),
			S(50, 124), S(80, 152), S(86, 158), S(94, 174), S(108, 188), S(112, 204),
			S(120, 222), S(140, 232), S(144, 236), S(146, 244), S(150, 256), S(154, 260),
			S(170, 266), S(188, 272), S(198, 280), S(216, 314), S(224, 316), S(226, 322),
			S(236, 348), S(238, 354), S(246, 382), S(256, 398)},
	},
	vb.Atomic: {
		{S(-85, -78), S(-78, -63), S(-35, -40), S(-2, -24), S(14, 8), S(23, 25),
			S(39, 26), S(30, 23), S(36, 29)},
		{S(-55, -64), S(-17, -34), S(13, -9), S(24, 20), S(22, 25), S(57, 38),
			S(32, 52), S(67, 66), S(52, 52), S(57, 74), S(73, 77), S(85, 81),
			S(92, 90), S(110, 86)},
		{S(-60, -73), S(-33, -28), S(-18, 9), S(-19, 30), S(-19, 58), S(20, 77),
			S(12, 106), S(11, 133), S(21, 134), S(33, 165), S(34, 169), S(39, 183),
			S(25, 171), S(61, 181), S(58, 158)},
		{S(-43, -43), S(-14, -16), S(-5, 1), S(0, 23), S(6, 24), S(24, 58),
			S(20, 55), S(31, 67), S(47, 90), S(28, 79), S(47, 89), S(69, 104),
			S(64, 111), S(75, 128), S(72, 114), S(48, 132), S(58, 130), S(76, 134),
			S(84, 124), S(109, 131), S(114, 143), S(103, 140), S(105, 146), S(109, 165),
			S(116, 156), S(127, 176), S(130, 174), S(129, 204)},
	},
	vb.Crazyhouse: {
		{S(-126, -96), S(-103, -31), S(-90, -27), S(-40, 3), S(0, 3), S(4, 0),
			S(20, 12), S(15, 33), S(50, 46)},
		{S(-156, -79), S(-115, -43), S(42, -14), S(35, 26), S(64, 26), S(74, 38),
			S(70, 46), S(83, 71), S(70, 68), S(66, 80), S(64, 68), S(70, 77),
			S(97, 92), S(89, 98)},
		{S(-53, -53), S(-22, -8), S(-48, 30), S(-14, 57), S(-4, 77), S(11, 87),
			S(7, 115), S(12, 123), S(27, 120), S(6, 140), S(55, 156), S(18, 161),
			S(51, 161), S(54, 171), S(52, 166)},
		{S(-26, -56), S(-24, -14), S(7, 14), S(8, 15), S(18, 34), S(14, 41),
			S(28, 58), S(33, 66), S(40, 70), S(47, 74), S(50, 100), S(52, 106),
			S(59, 111), S(50, 95), S(60, 115), S(61, 126), S(75, 144), S(82, 119),
			S(95, 137), S(102, 138), S(100, 142), S(119, 154), S(129, 156), S(107, 156),
			S(111, 177), S(115, 181), S(124, 197), S(124, 199)},
	},
	vb.Extinction: {
		{S(-123, -90), S(-91, -32), S(-61, -29), S(-38, 3), S(0, 3), S(4, 0),
			S(19, 12), S(15, 33), S(52, 45)},
		{S(-153, -80), S(-112, -41), S(41, -14), S(35, 24), S(62, 26), S(75, 41),
			S(72, 48), S(85, 74), S(74, 65), S(66, 79), S(64, 69), S(73, 80),
			S(107, 92), S(96, 101)},
		{S(-59, -51), S(-20, -8), S(-54, 32), S(-15, 54), S(-4, 70), S(11, 84),
			S(6, 113), S(13, 123), S(27, 114), S(6, 144), S(60, 162), S(19, 162),
			S(48, 170), S(57, 170), S(52, 177)},
		{S(-27, -56), S(-24, -14), S(7, 13), S(9, 16), S(18, 37), S(14, 40),
			S(29, 56), S(34, 64), S(39, 73), S(49, 65), S(50, 98), S(50, 106),
			S(60, 107), S(53, 92), S(62, 119), S(69, 130), S(77, 145), S(84, 120),
			S(90, 153), S(98, 131), S(106, 139), S(116, 147), S(127, 157), S(112, 154),
			S(121, 174), S(124, 167), S(126, 194), S(130, 190)},
	},
	vb.Grid: {
		{S(-75, -76), S(-57, -54), S(-9, -28), S(-2, -10), S(6, 5), S(14, 12),
			S(22, 26), S(29, 29), S(36, 29)},
		{S(-48, -59), S(-20, -23), S(16, -3), S(26, 13), S(38, 24), S(51, 42),
			S(55, 54), S(63, 57), S(63, 65), S(68, 73), S(81, 78), S(81, 86),
			S(91, 88), S(98, 97)},
		{S(-58, -76), S(-27, -18), S(-15, 28), S(-10, 55), S(-5, 69), S(-2, 82),
			S(9, 112), S(16, 118), S(30, 132), S(29, 142), S(32, 155), S(38, 165),
			S(46, 166), S(48, 169), S(58, 171)},
		{S(-39, -36), S(-21, -15), S(3, 8), S(3, 18), S(14, 34), S(22, 54),
			S(28, 61), S(41, 73), S(43, 79), S(48, 92), S(56, 94), S(60, 104),
			S(60, 113), S(66, 120), S(67, 123), S(70, 126), S(71, 133), S(73, 136),
			S(79, 140), S(88, 143), S(88, 148), S(99, 166), S(102, 170), S(102, 175),
			S(106, 184), S(109, 191), S(113, 206), S(116, 212)},
	},
	vb.Horde: {
		{S(-126, -90), S(-7, -22), S(-46, -25), S(19, 7), S(-53, 71), S(31, -1),
			S(-6, 51), S(-12, 47), S(-9, -56)},
		{S(-46, -2), S(30, 66), S(18, -27), S(86, 21), S(65, 11), S(147, 45),
			S(98, 38), S(95, 52), S(122, 45), S(95, 33), S(89, 103), S(85, -9),
			S(105, 70), S(131, 82)},
		{S(-56, -78), S(-25, -18), S(-11, 26), S(-5, 55), S(-4, 70), S(-1, 81),
			S(8, 109), S(14, 120), S(21, 128), S(23, 143), S(31, 154), S(32, 160),
			S(43, 165), S(49, 168), S(59, 169)},
		{S(-40, -35), S(-25, -12), S(2, 7), S(4, 19), S(14, 37), S(24, 55),
			S(25, 62), S(40, 76), S(43, 79), S(47, 87), S(54, 94), S(56, 102),
			S(60, 111), S(70, 116), S(72, 118), S(73, 122), S(75, 128), S(77, 130),
			S(85, 133), S(94, 136), S(99, 140), S(108, 157), S(112, 158), S(113, 161),
			S(118, 174), S(119, 177), S(123, 191), S(128, 199)},
	},
	vb.KingOfTheHill: {
		{S(-75, -76), S(-56, -54), S(-9, -26), S(-2, -10), S(6, 5), S(15, 11),
			S(22, 26), S(30, 28), S(36, 29)},
		{S(-48, -58), S(-21, -19), S(16, -2), S(26, 12), S(37, 22), S(51, 42),
			S(54, 54), S(63, 58), S(65, 63), S(71, 70), S(79, 74), S(81, 86),
			S(92, 90), S(97, 94)},
		{S(-56, -78), S(-25, -18), S(-11, 26), S(-5, 55), S(-4, 70), S(-1, 81),
			S(8, 109), S(14, 120), S(21, 128), S(23, 143), S(31, 154), S(32, 160),
			S(43, 165), S(49, 168), S(59, 169)},
		{S(-40, -35), S(-25, -12), S(2, 7), S(4, 19), S(14, 37), S(24, 55),
			S(25, 62), S(40, 76), S(43, 79), S(47, 87), S(54, 94), S(56, 102),
			S(60, 111), S(70, 116), S(72, 118), S(73, 122), S(75, 128), S(77, 130),
			S(85, 133), S(94, 136), S(99, 140), S(108, 157), S(112, 158), S(113, 161),
			S(118, 174), S(119, 177), S(123, 191), S(128, 199)},
	},
	vb.Losers: {
		{S(-150, -152), S(-112, -108), S(-18, -52), S(-4, -20), S(12, 10), S(30, 22),
			S(44, 52), S(60, 56), S(72, 58)},
		{S(-96, -116), S(-42, -38), S(32, -4), S(52, 24), S(74, 44), S(102, 84),
			S(108, 108), S(126, 116), S(130, 126), S(142, 140), S(158, 148), S(162, 172),
			S(184, 180), S(194, 188)},
		{S(-112, -156), S(-50, -36), S(-22, 52), S(-10, 110), S(-8, 140), S(-2, 162),
			S(16, 218), S(28, 240), S(42, 256), S(46, 286), S(62, 308), S(64, 320),
			S(86, 330), S(98, 336), S(118, 338)},
		{S(-80, -70), S(-50, -24), S(4, 14), S(8, 38), S(28, 74), S(48, 110),
			S(50, 124), S(80, 152), S(86, 158), S(94, 174), S(108, 188), S(112, 204),
			S(120, 222), S(140, 232), S(144, 236), S(146, 244), S(150, 256), S(154, 260),
			S(170, 266), S(188, 272), S(198, 280), S(216, 314), S(224, 316), S(226, 322),
			S(236, 348), S(238, 354), S(246, 382), S(256, 398)},
	},
	vb.Race: {
		{S(-132, -117), S(-89, -110), S(-13, -49), S(-11, -15), S(-10, -30), S(29, 17),
			S(13, 32), S(79, 69), S(109, 79)},
		{S(-101, -119), S(-19, -27), S(27, -9), S(35, 30), S(62, 31), S(115, 72),
			S(91, 99), S(138, 122), S(129, 119), S(158, 156), S(153, 162), S(143, 189),
			S(172, 181), S(196, 204)},
		{S(-131, -162), S(-57, -37), S(-8, 47), S(12, 93), S(3, 127), S(10, 139),
			S(3, 240), S(18, 236), S(44, 251), S(44, 291), S(49, 301), S(67, 316),
			S(100, 324), S(97, 340), S(110, 324)},
		{S(-87, -68), S(-73, -2), S(-7, 9), S(-5, 16), S(39, 76), S(39, 118),
			S(64, 131), S(86, 169), S(86, 175), S(78, 166), S(97, 195), S(123, 216),
			S(137, 200), S(155, 247), S(159, 260), S(136, 252), S(156, 279), S(160, 251),
			S(165, 251), S(194, 267), S(204, 271), S(216, 331), S(226, 304), S(223, 295),
			S(239, 316), S(228, 365), S(240, 385), S(249, 377)},
	},
	vb.Relay: {
		{S(-75, -76), S(-56, -54), S(-9, -26), S(-2, -10), S(6, 5), S(15, 11),
			S(22, 26), S(30, 28), S(36, 29)},
		{S(-48, -58), S(-21, -19), S(16, -2), S(26, 12), S(37, 22), S(51, 42),
			S(54, 54), S(63, 58), S(65, 63), S(71, 70), S(79, 74), S(81, 86),
			S(92, 90), S(97, 94)},
		{S(-56, -78), S(-25, -18), S(-11, 26), S(-5, 55), S(-4, 70), S(-1, 81),
			S(8, 109), S(14, 120), S(21, 128), S(23, 143), S(31, 154), S(32, 160),
			S(43, 165), S(49, 168), S(59, 169)},
		{S(-40, -35), S(-25, -12), S(2, 7), S(4, 19), S(14, 37), S(24, 55),
			S(25, 62), S(40, 76), S(43, 79), S(47, 87), S(54, 94), S(56, 102),
			S(60, 111), S(70, 116), S(72, 118), S(73, 122), S(75, 128), S(77, 130),
			S(85, 133), S(94, 136), S(99, 140), S(108, 157), S(112, 158), S(113, 161),
			S(118, 174), S(119, 177), S(123, 191), S(128, 199)},
	},
	vb.ThreeCheck: {
		{S(-74, -76), S(-55, -54), S(-9, -26), S(-2, -10), S(6, 5), S(15, 11),
			S(22, 26), S(31, 27), S(37, 29)},
		{S(-49, -56), S(-23, -18), S(15, -2), S(25, 12), S(36, 22), S(50, 42),
			S(53, 54), S(64, 57), S(67, 63), S(71, 68), S(84, 76), S(79, 87),
			S(95, 91), S(98, 93)},
		{S(-57, -76), S(-25, -18), S(-11, 25), S(-5, 53), S(-4, 70), S(-1, 78),
			S(8, 111), S(14, 116), S(22, 125), S(24, 148), S(31, 159), S(31, 173),
			S(44, 163), S(50, 162), S(56, 168)},
		{S(-42, -35), S(-25, -12), S(2, 7), S(4, 19), S(14, 37), S(24, 53),
			S(26, 63), S(39, 80), S(42, 77), S(48, 88), S(53, 96), S(57, 96),
			S(61, 108), S(71, 116), S(70, 116), S(74, 125), S(75, 133), S(78, 133),
			S(85, 137), S(97, 135), S(103, 141), S(107, 165), S(109, 153), S(115, 162),
			S(119, 164), S(121, 184), S(121, 192), S(131, 203)},
	},
	vb.TwoKings: {
		{S(-75, -76), S(-57, -54), S(-9, -28), S(-2, -10), S(6, 5), S(14, 12),
			S(22, 26), S(29, 29), S(36, 29)},
		{S(-48, -59), S(-20, -23), S(16, -3), S(26, 13), S(38, 24), S(51, 42),
			S(55, 54), S(63, 57), S(63, 65), S(68, 73), S(81, 78), S(81, 86),
			S(91, 88), S(98, 97)},
		{S(-58, -76), S(-27, -18), S(-15, 28), S(-10, 55), S(-5, 69), S(-2, 82),
			S(9, 112), S(16, 118), S(30, 132), S(29, 142), S(32, 155), S(38, 165),
			S(46, 166), S(48, 169), S(58, 171)},
		{S(-39, -36), S(-21, -15), S(3, 8), S(3, 18), S(14, 34), S(22, 54),
			S(28, 61), S(41, 73), S(43, 79), S(48, 92), S(56, 94), S(60, 104),
			S(60, 113), S(66, 120), S(67, 123), S(70, 126), S(71, 133), S(73, 136),
			S(79, 140), S(88, 143), S(88, 148), S(99, 166), S(102, 170), S(102, 175),
			S(106, 184), S(109, 191), S(113, 206), S(116, 212)},
	},
}

// Outpost[knight/bishop][supported by pawn] contains bonuses for minor
// pieces if they can reach an outpost square, bigger if that square is
// supported by a pawn. If the minor piece occupies an outpost square the
// score is doubled.
var Outpost = [2][2]Score{
	{S(22, 6), S(36, 12)}, // Knight
	{S(9, 2), S(15, 5)},   // Bishop
}

// RookOnFile[semiopen/open] contains bonuses for each rook when there is no
// friendly pawn on the rook file.
var RookOnFile = [2]Score{S(20, 7), S(45, 20)}

// ThreatByMinor/ByRook[attacked PieceType] contains bonuses according to
// which piece type attacks which one. Attacks on lesser pieces which are
// pawn-defended are not considered.
var ThreatByMinor = [vb.PieceTypeNB]Score{
	S(0, 0), S(0, 33), S(45, 43), S(46, 47), S(72, 107), S(48, 118),
}

var ThreatByRook = [vb.PieceTypeNB]Score{
	S(0, 0), S(0, 25), S(40, 62), S(40, 59), S(0, 34), S(35, 48),
}

// ThreatByKing[on one/on many] contains bonuses for king attacks on pawns
// or pieces which are not pawn-defended.
var ThreatByKing = [2]Score{S(3, 62), S(9, 138)}

// Passed[variant][mg/eg][relative rank - 1] contains bonuses for passed
// pawns; the two phase components are processed independently. The Race row
// stays zero: racing kings has no passed-pawn walk.
var Passed = [vb.VariantNB][2][8]int{
	vb.Standard: {
		{5, 5, 31, 73, 166, 252},
		{7, 14, 38, 73, 166, 252},
	},
	vb.Anti: {
		{5, 5, 31, 73, 166, 252},
		{7, 14, 38, 73, 166, 252},
	},
	vb.Atomic: {
		{95, 118, 94, 142, 196, 204},
		{86, 43, 61, 62, 150, 256},
	},
	vb.Crazyhouse: {
		{15, 23, 13, 88, 177, 229},
		{27, 13, 19, 111, 140, 203},
	},
	vb.Extinction: {
		{5, 5, 31, 73, 166, 252},
		{7, 14, 38, 73, 166, 252},
	},
	vb.Grid: {
		{11, 4, 27, 58, 168, 251},
		{2, 0, 34, 17, 165, 253},
	},
	vb.Horde: {
		{-66, -25, 66, 68, 72, 250},
		{10, 7, -12, 81, 210, 258},
	},
	vb.KingOfTheHill: {
		{5, 5, 31, 73, 166, 252},
		{7, 14, 38, 73, 166, 252},
	},
	vb.Losers: {
		{5, 5, 31, 73, 166, 252},
		{7, 14, 38, 73, 166, 252},
	},
	vb.Race: {},
	vb.Relay: {
		{5, 5, 31, 73, 166, 252},
		{7, 14, 38, 73, 166, 252},
	},
	vb.ThreeCheck: {
		{5, 5, 31, 73, 166, 252},
		{7, 14, 38, 73, 166, 252},
	},
	vb.TwoKings: {
		{5, 5, 31, 73, 166, 252},
		{7, 14, 38, 73, 166, 252},
	},
}

// ChecksGivenBonus rewards checks already delivered in Three-check.
var ChecksGivenBonus = [4]Score{
	S(0, 0),
	S(444, 181),
	S(2425, 603),
	S(0, 0),
}

// King-of-the-hill center proximity bonuses.
var KothDistanceBonus = [6]Score{
	S(1949, 1934), S(454, 364), S(151, 158), S(75, 85), S(42, 49), S(0, 0),
}

var KothSafeCenter = S(163, 207)

// Anti (giveaway) capture-threat tables.
var PieceCountAnti = S(119, 123)
var ThreatsAnti = [2]Score{S(192, 203), S(411, 322)}
var AttacksAnti = [2][2][vb.PieceTypeNB]Score{
	{
		{S(30, 141), S(26, 94), S(161, 105), S(70, 123), S(61, 72), S(78, 12), S(139, 115)},
		{S(56, 89), S(82, 107), S(114, 93), S(110, 115), S(188, 112), S(73, 59), S(122, 59)},
	},
	{
		{S(119, 142), S(99, 105), S(123, 193), S(142, 37), S(118, 96), S(50, 12), S(91, 85)},
		{S(58, 81), S(66, 110), S(105, 153), S(100, 143), S(140, 113), S(145, 73), S(153, 154)},
	},
}

// Losers variants of the capture-threat tables.
var ThreatsLosers = [2]Score{S(216, 279), S(441, 341)}
var AttacksLosers = [2][2][vb.PieceTypeNB]Score{
	{
		{S(27, 140), S(23, 95), S(160, 112), S(78, 129), S(65, 75), S(70, 13), S(146, 123)},
		{S(58, 82), S(80, 112), S(124, 87), S(103, 110), S(185, 107), S(72, 60), S(126, 62)},
	},
	{
		{S(111, 127), S(102, 95), S(121, 183), S(140, 37), S(120, 99), S(55, 11), S(88, 93)},
		{S(56, 69), S(72, 124), S(109, 154), S(98, 149), S(129, 113), S(147, 72), S(157, 152)},
	},
}

// KingDangerInHand[piece type] scales Crazyhouse king danger by the pieces
// the attacker still holds; index 0 is the all-pieces total.
var KingDangerInHand = [vb.PieceTypeNB]int{
	79, 16, 200, 61, 138, 152,
}

// KingRaceBonus[rank distance from promotion] rewards king progress in
// Racing Kings.
var KingRaceBonus = [8]Score{
	S(14282, 14493), S(6369, 5378), S(4224, 3557), S(2633, 2219),
	S(1614, 1456), S(975, 885), S(528, 502), S(0, 0),
}

// PassedFile[File] contains a bonus according to the file of a passed pawn.
var PassedFile = [8]Score{
	S(9, 10), S(2, 10), S(1, -8), S(-20, -12),
	S(-20, -12), S(1, -8), S(2, 10), S(9, 10),
}

// KingProtector[PieceType-2] contains a bonus according to distance from king.
var KingProtector = [4]Score{S(-3, -5), S(-4, -3), S(-3, 0), S(-1, 1)}

// Assorted bonuses and penalties used by evaluation.
var (
	MinorBehindPawn  = S(16, 0)
	BishopPawns      = S(8, 12)
	LongRangedBishop = S(22, 0)
	RookOnPawn       = S(8, 24)
	TrappedRook      = S(92, 0)
	WeakQueen        = S(50, 10)

	PawnlessFlank         = S(20, 80)
	ThreatByHangingPawn   = S(71, 61)
	ThreatBySafePawn      = S(192, 175)
	ThreatByRank          = S(16, 3)
	Hanging               = S(48, 27)
	WeakUnopposedPawn     = S(5, 25)
	ThreatByPawnPush      = S(38, 22)
	ThreatByAttackOnQueen = S(38, 22)
	HinderPassedPawn      = S(7, 0)
	TrappedBishopA1H1     = S(50, 50)
)

// CloseEnemies[variant] prices enemy activity in our king's flank.
var CloseEnemies = [vb.VariantNB]Score{
	vb.Standard:      S(7, 0),
	vb.Anti:          S(0, 0),
	vb.Atomic:        S(17, 0),
	vb.Crazyhouse:    S(14, 20),
	vb.Extinction:    S(0, 0),
	vb.Grid:          S(7, 0),
	vb.Horde:         S(7, 0),
	vb.KingOfTheHill: S(7, 0),
	vb.Losers:        S(7, 0),
	vb.Race:          S(0, 0),
	vb.Relay:         S(7, 0),
	vb.ThreeCheck:    S(16, 9),
	vb.TwoKings:      S(7, 0),
}

// KingAttackWeights[variant][PieceType] contains king attack weights by
// piece type. Rows left empty belong to variants with king safety disabled.
var KingAttackWeights = [vb.VariantNB][vb.PieceTypeNB]int{
	vb.Standard:      {0, 0, 78, 56, 45, 11},
	vb.Atomic:        {0, 0, 76, 64, 46, 11},
	vb.Crazyhouse:    {0, 0, 112, 87, 63, 2},
	vb.Grid:          {0, 0, 89, 62, 47, 11},
	vb.Horde:         {0, 0, 78, 56, 45, 11},
	vb.KingOfTheHill: {0, 0, 76, 48, 44, 10},
	vb.Losers:        {0, 0, 78, 56, 45, 11},
	vb.Relay:         {0, 0, 78, 56, 45, 11},
	vb.ThreeCheck:    {0, 0, 115, 64, 62, 35},
	vb.TwoKings:      {0, 0, 78, 56, 45, 11},
}

// KingDangerParams[variant] holds the per-variant linear terms of the
// composite king danger: adjacent-zone attacks, weak squares in the ring,
// pins plus unsafe checks, the no-enemy-queen rebate, the mg-score term,
// the constant, and the endgame-conversion numerator.
var KingDangerParams = [vb.VariantNB][7]int{
	vb.Standard:      {102, 191, 143, -848, -9, 40, 0},
	vb.Atomic:        {274, 166, 146, -654, -12, -7, 29},
	vb.Crazyhouse:    {119, 439, 130, -613, -6, -1, 320},
	vb.Grid:          {119, 211, 158, -722, -9, 41, 0},
	vb.Horde:         {101, 235, 134, -717, -11, -5, 0},
	vb.KingOfTheHill: {85, 229, 131, -658, -9, -5, 0},
	vb.Losers:        {101, 235, 134, -717, -357, -5, 0},
	vb.Relay:         {101, 235, 134, -717, -11, -5, 0},
	vb.ThreeCheck:    {85, 136, 106, -613, -7, -73, 181},
	vb.TwoKings:      {92, 155, 136, -967, -8, 38, 0},
}

// Penalties for enemy's safe checks.
const (
	QueenSafeCheck  = 780
	RookSafeCheck   = 880
	BishopSafeCheck = 435
	KnightSafeCheck = 790

	// Atomic: own pieces adjacent to the king invite indirect attack.
	IndirectKingAttack = 883
)

// ThreeCheckKSFactors scales king safety by checks already received, in Q8
// fixed point.
var ThreeCheckKSFactors = [4]int{571, 619, 858, 0}

// LazyThreshold bounds the blended midscore above which the standard-variant
// evaluation returns early.
const LazyThreshold = 1500

// SpaceThreshold[variant] is the minimum total non-pawn material for the
// space term to be evaluated.
var SpaceThreshold = [vb.VariantNB]int{
	vb.Standard:      12222,
	vb.Anti:          12222,
	vb.Atomic:        12222,
	vb.Crazyhouse:    12222,
	vb.Extinction:    12222,
	vb.Grid:          12222,
	vb.Horde:         0,
	vb.KingOfTheHill: 0,
	vb.Losers:        12222,
	vb.Race:          12222,
	vb.Relay:         12222,
	vb.ThreeCheck:    12222,
	vb.TwoKings:      12222,
}

// Tempo[variant] is the side-to-move bonus added on top of the static value.
var Tempo = [vb.VariantNB]int{
	vb.Standard:      20,
	vb.Anti:          10,
	vb.Atomic:        20,
	vb.Crazyhouse:    25,
	vb.Extinction:    20,
	vb.Grid:          20,
	vb.Horde:         20,
	vb.KingOfTheHill: 20,
	vb.Losers:        10,
	vb.Race:          20,
	vb.Relay:         20,
	vb.ThreeCheck:    20,
	vb.TwoKings:      20,
}

// Scale factors modulating the endgame half of the blend.
const (
	scaleFactorDraw    = 0
	scaleFactorOnePawn = 48
	scaleFactorNormal  = 64
	scaleFactorMax     = 128
)

// phaseMidgame is the upper bound of the game-phase interpolation weight.
const phaseMidgame = 128

// Board regions shared by the king, space and initiative terms.
const (
	center      = (vb.FileDBB | vb.FileEBB) & (vb.Rank4BB | vb.Rank5BB)
	queenSide   = vb.FileABB | vb.FileBBB | vb.FileCBB | vb.FileDBB
	centerFiles = vb.FileCBB | vb.FileDBB | vb.FileEBB | vb.FileFBB
	kingSide    = vb.FileEBB | vb.FileFBB | vb.FileGBB | vb.FileHBB
)

// kingFlank[file] is the four-file region the king safety terms treat as
// the king's wing.
var kingFlank = [8]uint64{
	queenSide, queenSide, queenSide, centerFiles,
	centerFiles, kingSide, kingSide, kingSide,
}
