package bootstrap

const welcomeBanner = `
╔══════════════════════════════════════════════════╗
║                  🚀 AGENTFORGE                   ║
║           Multi-Agent System Template            ║
║                                                  ║
║           Crafted with ❤️ by goldirana           ║
╚══════════════════════════════════════════════════╝
`
