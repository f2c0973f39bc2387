// Package rpi binds the endpoint to Raspberry Pi class hardware through
// periph.io: GPIO lines for the indicators and an MFRC522 on SPI for cards.
package rpi
